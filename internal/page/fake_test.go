package page

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/RESA9399/emberfall/internal/notify"
)

// call is one recorded View operation.
type call struct {
	op string
	id string
	a  string
	b  string
}

// fakeView records every operation a controller emits. Timer callbacks fire
// on their own goroutines in tests (no session dispatcher), so all state is
// guarded by the mutex.
type fakeView struct {
	mu    sync.Mutex
	calls []call

	texts   map[string]string
	classes map[string]map[string]bool
	attrs   map[string]map[string]string
	enabled map[string]bool
	styles  map[string]string
	removed map[string]bool
	banners []notify.Banner
	scrolls []int
	uris    []string
	clips   []string
	legacy  []string

	openErr   error
	clipErr   error
	legacyErr error

	themeShown bool
}

func newFakeView() *fakeView {
	return &fakeView{
		texts:   make(map[string]string),
		classes: make(map[string]map[string]bool),
		attrs:   make(map[string]map[string]string),
		enabled: make(map[string]bool),
		styles:  make(map[string]string),
		removed: make(map[string]bool),
	}
}

func (v *fakeView) record(c call) {
	v.calls = append(v.calls, c)
}

func (v *fakeView) SetText(id, text string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.texts[id] = text
	v.record(call{op: "set_text", id: id, a: text})
}

func (v *fakeView) AddClass(id, class string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.classes[id] == nil {
		v.classes[id] = make(map[string]bool)
	}
	v.classes[id][class] = true
	v.record(call{op: "add_class", id: id, a: class})
}

func (v *fakeView) RemoveClass(id, class string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	delete(v.classes[id], class)
	v.record(call{op: "remove_class", id: id, a: class})
}

func (v *fakeView) SetStyle(id, prop, value string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.styles[id+"/"+prop] = value
	v.record(call{op: "set_style", id: id, a: prop, b: value})
}

func (v *fakeView) SetAttr(id, name, value string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.attrs[id] == nil {
		v.attrs[id] = make(map[string]string)
	}
	v.attrs[id][name] = value
	v.record(call{op: "set_attr", id: id, a: name, b: value})
}

func (v *fakeView) SetEnabled(id string, enabled bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.enabled[id] = enabled
	v.record(call{op: "set_enabled", id: id, a: fmt.Sprint(enabled)})
}

func (v *fakeView) Remove(id string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.removed[id] = true
	v.record(call{op: "remove", id: id})
}

func (v *fakeView) Focus(id string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.record(call{op: "focus", id: id})
}

func (v *fakeView) ScrollTo(y int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.scrolls = append(v.scrolls, y)
	v.record(call{op: "scroll_to", a: fmt.Sprint(y)})
}

func (v *fakeView) OpenURI(uri string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.uris = append(v.uris, uri)
	v.record(call{op: "open_uri", a: uri})
	return v.openErr
}

func (v *fakeView) WriteClipboard(text string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.clipErr != nil {
		return v.clipErr
	}
	v.clips = append(v.clips, text)
	return nil
}

func (v *fakeView) WriteClipboardLegacy(text string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.legacyErr != nil {
		return v.legacyErr
	}
	v.legacy = append(v.legacy, text)
	return nil
}

func (v *fakeView) InjectStyle(name, css string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.styles["style/"+name] = css
	v.record(call{op: "inject_style", id: name, a: css})
}

func (v *fakeView) RemoveStyle(name string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	delete(v.styles, "style/"+name)
	v.record(call{op: "remove_style", id: name})
}

func (v *fakeView) ShowThemeToggle() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.themeShown = true
	v.record(call{op: "theme_button"})
}

func (v *fakeView) ShowBanner(b notify.Banner) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.banners = append(v.banners, b)
	v.record(call{op: "banner", id: fmt.Sprint(b.ID), a: b.Message, b: string(b.Phase)})
}

func (v *fakeView) text(id string) string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.texts[id]
}

func (v *fakeView) hasClass(id, class string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.classes[id][class]
}

func (v *fakeView) attr(id, name string) string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.attrs[id][name]
}

func (v *fakeView) style(key string) (string, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	s, ok := v.styles[key]
	return s, ok
}

func (v *fakeView) isRemoved(id string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.removed[id]
}

func (v *fakeView) isEnabled(id string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.enabled[id]
}

func (v *fakeView) clipboard() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]string, len(v.clips))
	copy(out, v.clips)
	return out
}

func (v *fakeView) legacyClipboard() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]string, len(v.legacy))
	copy(out, v.legacy)
	return out
}

func (v *fakeView) openedURIs() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]string, len(v.uris))
	copy(out, v.uris)
	return out
}

func (v *fakeView) bannerMessages() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	var out []string
	for _, b := range v.banners {
		if b.Phase == notify.Visible {
			out = append(out, b.Message)
		}
	}
	return out
}

func (v *fakeView) ops(op string) []call {
	v.mu.Lock()
	defer v.mu.Unlock()
	var out []call
	for _, c := range v.calls {
		if c.op == op {
			out = append(out, c)
		}
	}
	return out
}

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatal(msg)
}
