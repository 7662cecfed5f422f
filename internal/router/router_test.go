package router

import (
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/brightpath/ldscreen/internal/screen"
)

// stubScreen is a minimal screen for testing.
type stubScreen struct {
	title   string
	initRan bool
	closed  int
}

func (s *stubScreen) Init() tea.Cmd {
	s.initRan = true
	return nil
}
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *stubScreen) View(int, int) string                    { return s.title }
func (s *stubScreen) Title() string                           { return s.title }
func (s *stubScreen) Close()                                  { s.closed++ }

func TestPush(t *testing.T) {
	s1 := &stubScreen{title: "first"}
	r := New(s1)

	s2 := &stubScreen{title: "second"}
	r.Push(s2)

	if r.Depth() != 2 {
		t.Errorf("expected depth 2, got %d", r.Depth())
	}
	if r.Active().Title() != "second" {
		t.Errorf("expected active 'second', got %q", r.Active().Title())
	}
	if !s2.initRan {
		t.Error("expected Init() to run on pushed screen")
	}
}

func TestPopClosesScreen(t *testing.T) {
	s1 := &stubScreen{title: "first"}
	r := New(s1)

	s2 := &stubScreen{title: "second"}
	r.Push(s2)
	r.Update(PopScreenMsg{})

	if r.Depth() != 1 {
		t.Errorf("expected depth 1, got %d", r.Depth())
	}
	if r.Active().Title() != "first" {
		t.Errorf("expected active 'first', got %q", r.Active().Title())
	}
	if s2.closed != 1 || s1.closed != 0 {
		t.Errorf("closed counts = %d, %d", s1.closed, s2.closed)
	}
}

func TestPopNoopAtBottom(t *testing.T) {
	s1 := &stubScreen{title: "first"}
	r := New(s1)

	r.Pop()

	if r.Depth() != 1 {
		t.Errorf("expected depth 1 after pop at bottom, got %d", r.Depth())
	}
	if s1.closed != 0 {
		t.Error("bottom screen must not be closed")
	}
}

func TestReplaceScreenMsg(t *testing.T) {
	s1 := &stubScreen{title: "first"}
	r := New(s1)
	s2 := &stubScreen{title: "second"}
	r.Push(s2)

	s3 := &stubScreen{title: "third"}
	r.Update(ReplaceScreenMsg{Screen: s3})

	if r.Depth() != 2 {
		t.Errorf("expected depth 2, got %d", r.Depth())
	}
	if r.Active().Title() != "third" {
		t.Errorf("expected active 'third', got %q", r.Active().Title())
	}
	if !s3.initRan || s2.closed != 1 {
		t.Error("expected replaced screen closed and new screen initialized")
	}
}

func TestCloseAll(t *testing.T) {
	s1 := &stubScreen{title: "first"}
	s2 := &stubScreen{title: "second"}
	r := New(s1)
	r.Push(s2)

	r.CloseAll()
	if s1.closed != 1 || s2.closed != 1 {
		t.Errorf("closed counts = %d, %d", s1.closed, s2.closed)
	}
}

func TestPushCmd(t *testing.T) {
	s := &stubScreen{title: "pushed"}
	msg := PushCmd(s)()
	push, ok := msg.(PushScreenMsg)
	if !ok || push.Screen != s {
		t.Fatalf("PushCmd produced %#v", msg)
	}
	if _, ok := Back().(PopScreenMsg); !ok {
		t.Fatal("Back should produce PopScreenMsg")
	}
}

type resumingScreen struct {
	stubScreen
	resumed int
}

type resumedMsg struct{}

func (s *resumingScreen) Resume() tea.Cmd {
	s.resumed++
	return func() tea.Msg { return resumedMsg{} }
}

func TestPopResumesScreenBelow(t *testing.T) {
	base := &resumingScreen{stubScreen: stubScreen{title: "home"}}
	r := New(base)
	r.Push(&stubScreen{title: "child"})

	cmd := r.Update(PopScreenMsg{})
	if base.resumed != 1 {
		t.Fatalf("expected one resume, got %d", base.resumed)
	}
	if cmd == nil {
		t.Fatal("expected the resume command to be returned")
	}
	if _, ok := cmd().(resumedMsg); !ok {
		t.Error("unexpected resume message")
	}
}
