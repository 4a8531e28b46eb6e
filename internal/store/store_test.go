package store

import (
	"fmt"
	"testing"

	"github.com/soldesk/streamsync/internal/model"
)

func TestSetPrice_LastWriteWins(t *testing.T) {
	s := New()

	s.SetPrice("SOL", 150.2)
	if p, _ := s.Price("SOL"); p != 150.2 {
		t.Errorf("Price(SOL) = %v, want 150.2", p)
	}

	s.SetPrice("SOL", 151.0)
	p, ok := s.Price("SOL")
	if !ok {
		t.Fatal("price not found")
	}
	if p != 151.0 {
		t.Errorf("Price(SOL) = %v, want 151.0", p)
	}

	// No history kept: the map holds exactly one entry for the mint.
	if len(s.Prices()) != 1 {
		t.Errorf("len(Prices()) = %d, want 1", len(s.Prices()))
	}
}

func TestSetPrices_MergesSnapshot(t *testing.T) {
	s := New()
	s.SetPrice("SOL", 150.0)
	s.SetPrices(map[string]float64{"USDC": 1.0, "BONK": 0.00002})

	prices := s.Prices()
	if len(prices) != 3 {
		t.Errorf("len(prices) = %d, want 3", len(prices))
	}
	if prices["SOL"] != 150.0 {
		t.Errorf("SOL = %v, want 150.0", prices["SOL"])
	}
}

func TestAppendSignal_CapBoundary(t *testing.T) {
	s := New()

	for i := 0; i < MaxSignals; i++ {
		s.AppendSignal(model.Signal{ID: fmt.Sprintf("sig-%d", i)})
	}
	if got := len(s.Signals()); got != MaxSignals {
		t.Fatalf("len(signals) = %d, want %d", got, MaxSignals)
	}

	// One more drops the oldest, keeps the cap.
	s.AppendSignal(model.Signal{ID: "sig-new"})

	signals := s.Signals()
	if len(signals) != MaxSignals {
		t.Errorf("len(signals) = %d, want %d", len(signals), MaxSignals)
	}
	if signals[0].ID != "sig-new" {
		t.Errorf("signals[0].ID = %q, want sig-new", signals[0].ID)
	}
	for _, sig := range signals {
		if sig.ID == "sig-0" {
			t.Error("oldest signal should have been dropped")
		}
	}
	// Arrival order preserved, newest first.
	if signals[1].ID != fmt.Sprintf("sig-%d", MaxSignals-1) {
		t.Errorf("signals[1].ID = %q, want sig-%d", signals[1].ID, MaxSignals-1)
	}
}

func TestUpsertSniperPosition(t *testing.T) {
	s := New()

	s.UpsertSniperPosition(model.SniperPosition{ID: "p1", Status: "open", PnLPct: 2.5})
	s.UpsertSniperPosition(model.SniperPosition{ID: "p2", Status: "open"})
	s.UpsertSniperPosition(model.SniperPosition{ID: "p1", Status: "selling", PnLPct: 8.0})

	positions := s.SniperPositions()
	if len(positions) != 2 {
		t.Fatalf("len(positions) = %d, want 2", len(positions))
	}
	if positions[0].Status != "selling" || positions[0].PnLPct != 8.0 {
		t.Errorf("p1 = %+v, want selling/8.0", positions[0])
	}
}

func TestSetLPPositionStatus_UnknownIgnored(t *testing.T) {
	s := New()
	s.ReplaceLPPositions([]model.LiquidityPosition{{ID: "lp1", Status: "active"}})

	s.SetLPPositionStatus("lp1", "closing")
	s.SetLPPositionStatus("missing", "closed")

	positions := s.LPPositions()
	if len(positions) != 1 {
		t.Fatalf("len(positions) = %d, want 1", len(positions))
	}
	if positions[0].Status != "closing" {
		t.Errorf("Status = %q, want closing", positions[0].Status)
	}
}

func TestPushNotification_CapAndID(t *testing.T) {
	s := New()

	for i := 0; i < MaxNotifications+10; i++ {
		s.PushNotification(model.NotifyInfo, fmt.Sprintf("msg %d", i))
	}

	notifs := s.Notifications()
	if len(notifs) != MaxNotifications {
		t.Errorf("len(notifications) = %d, want %d", len(notifs), MaxNotifications)
	}
	if notifs[0].ID == "" {
		t.Error("notification missing ID")
	}
	if notifs[0].Message != fmt.Sprintf("msg %d", MaxNotifications+9) {
		t.Errorf("newest = %q, want last pushed", notifs[0].Message)
	}
}

func TestSubscribe_ChangeCarriesAppendedItem(t *testing.T) {
	s := New()
	ch := s.Subscribe()

	s.AppendSignal(model.Signal{ID: "sig-1"})

	select {
	case c := <-ch:
		if c.Domain != DomainCopyTrade {
			t.Errorf("Domain = %q, want %q", c.Domain, DomainCopyTrade)
		}
		sig, ok := c.Item.(model.Signal)
		if !ok {
			t.Fatalf("Item is %T, want model.Signal", c.Item)
		}
		if sig.ID != "sig-1" {
			t.Errorf("Item.ID = %q, want sig-1", sig.ID)
		}
	default:
		t.Fatal("no change delivered")
	}

	s.ReplaceBots(nil)
	select {
	case c := <-ch:
		if c.Item != nil {
			t.Errorf("replace action carried Item %v, want nil", c.Item)
		}
	default:
		t.Fatal("no change delivered for replace")
	}
}

func TestMutationCount(t *testing.T) {
	s := New()
	if s.MutationCount() != 0 {
		t.Errorf("MutationCount = %d, want 0", s.MutationCount())
	}
	s.SetPrice("SOL", 1)
	s.ReplaceBots(nil)
	if s.MutationCount() != 2 {
		t.Errorf("MutationCount = %d, want 2", s.MutationCount())
	}
}

func TestSnapshot_Domains(t *testing.T) {
	s := New()

	for _, domain := range []string{
		DomainPortfolio, DomainPrices, DomainHistory, DomainBots,
		DomainCopyTrade, DomainArb, DomainSniper, DomainIntel,
		DomainYield, DomainLiquidity, DomainStaking, DomainNotifications,
	} {
		if _, ok := s.Snapshot(domain); !ok {
			t.Errorf("Snapshot(%q) not found", domain)
		}
	}

	if _, ok := s.Snapshot("nope"); ok {
		t.Error("Snapshot(nope) should not exist")
	}
}

func TestGetters_ReturnCopies(t *testing.T) {
	s := New()
	s.ReplaceBots([]model.Bot{{ID: "b1", Status: "running"}})

	bots := s.Bots()
	bots[0].Status = "stopped"

	if s.Bots()[0].Status != "running" {
		t.Error("mutating a returned slice must not affect the store")
	}
}
