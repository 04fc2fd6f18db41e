package status

import (
	"math"

	"github.com/RESA9399/emberfall/internal/util"
)

// Simulation bounds.
const (
	simOnlineChance = 0.9
	simMinPlayers   = 80
	simMaxPlayers   = 200
	simMinPing      = 25
	simMaxPing      = 80
	simMaxSlots     = 200
)

// Simulate produces a randomized status used when no real backend is
// queried: 90% online, players and ping uniform within fixed bounds,
// zeroed when offline. Uptime is always drawn from 99.5 + U(0, 0.4)
// regardless of state.
func Simulate() Status {
	st := Status{
		State:      Offline,
		MaxPlayers: simMaxSlots,
		Uptime:     simUptime(),
	}

	if util.Chance(simOnlineChance) {
		st.State = Online
		st.Players = util.RandomInRange(simMinPlayers, simMaxPlayers)
		st.Ping = util.RandomInRange(simMinPing, simMaxPing)
	}

	return st
}

// simUptime returns 99.5 + U(0, 0.4) rounded to one decimal.
func simUptime() float64 {
	v := 99.5 + float64(util.RandomInRange(0, 400))/1000
	return math.Round(v*10) / 10
}
