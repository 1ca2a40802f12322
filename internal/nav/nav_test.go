package nav

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeSession struct {
	active bool
}

func (f *fakeSession) IsActive() bool { return f.active }

func TestGate_Resolve(t *testing.T) {
	tests := []struct {
		name      string
		requested Route
		want      Route
		active    bool
	}{
		{name: "protected with session", requested: RouteHistory, active: true, want: RouteHistory},
		{name: "protected without session", requested: RouteHistory, active: false, want: RouteLogin},
		{name: "login without session", requested: RouteLogin, active: false, want: RouteLogin},
		{name: "register with session", requested: RouteRegister, active: true, want: RouteRegister},
		{name: "unknown with session", requested: "/nowhere", active: true, want: RouteDashboard},
		{name: "unknown without session", requested: "/nowhere", active: false, want: RouteLogin},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGate(&fakeSession{active: tt.active})
			assert.Equal(t, tt.want, g.Resolve(tt.requested))
		})
	}
}

func TestGate_ReevaluatesEveryCall(t *testing.T) {
	session := &fakeSession{active: true}
	g := NewGate(session)

	assert.True(t, g.Allowed(RouteProfile))

	session.active = false
	assert.False(t, g.Allowed(RouteProfile))
	assert.Equal(t, RouteLogin, g.Resolve(RouteProfile))
}

func TestHistory_ReplaceDropsCurrentEntry(t *testing.T) {
	h := NewHistory(RouteLogin)
	h.Push(RouteDashboard)
	h.Push(RouteTransfer)

	h.Replace(RouteLogin)
	assert.Equal(t, []Route{RouteLogin, RouteDashboard, RouteLogin}, h.Entries())

	assert.True(t, h.Back())
	assert.Equal(t, RouteDashboard, h.Current())
	assert.NotContains(t, h.Entries(), RouteTransfer)
}

func TestHistory_HardRedirect(t *testing.T) {
	h := NewHistory(RouteDashboard)
	h.Push(RouteHistory)

	var events []Event
	h.Subscribe(func(ev Event) { events = append(events, ev) })

	h.HardRedirect(RouteLogin)

	assert.Equal(t, []Route{RouteLogin}, h.Entries())
	assert.Equal(t, uint64(1), h.Reloads())
	assert.False(t, h.Back())
	assert.Equal(t, []Event{{Kind: EventHardRedirect, Route: RouteLogin}}, events)
}

func TestHistory_PushSameRouteIsNoop(t *testing.T) {
	h := NewHistory(RouteDashboard)
	h.Push(RouteDashboard)
	assert.Equal(t, 1, h.Len())
}

func TestRoute_Title(t *testing.T) {
	assert.Equal(t, "History", RouteHistory.Title())
	assert.True(t, RouteProfile.Protected())
	assert.False(t, RouteRegister.Protected())
	assert.False(t, Route("/x").Known())
}
