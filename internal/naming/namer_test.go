package naming

import (
	"testing"

	"github.com/mj1618/ldtpd/internal/model"
	"github.com/mj1618/ldtpd/internal/platform/sim"
)

func loginWindow() *sim.Desktop {
	return sim.New(&model.Desktop{Applications: []*model.Application{{
		Name: "login",
		Windows: []*model.Element{{
			Role: model.RoleDialog, Name: "Log In",
			Children: []*model.Element{
				{ID: "user-label", Role: model.RoleLabel, Name: "User name:"},
				{Role: model.RoleText, Name: "entry", LabelledBy: "user-label"},
				{Role: model.RolePushButton, Name: "OK."},
				{Role: "quantum widget", Name: "x"},
				{Role: model.RolePanel},
				{Role: model.RoleCheckBox, Name: "Remember me", ControlledBy: "user-label"},
			},
		}},
	}}})
}

func TestLdtpize(t *testing.T) {
	win := loginWindow().Find("login", "Log In")
	tests := []struct {
		node      model.Node
		wantTag   string
		wantLabel string
	}{
		{win, "dlg", "LogIn"},
		{win.ChildAt(0), "lbl", "Username"},
		{win.ChildAt(1), "txt", "Username"},
		{win.ChildAt(2), "btn", "OK"},
		{win.ChildAt(3), model.UnknownTag, "x"},
		{win.ChildAt(4), "pnl", ""},
		{win.ChildAt(5), "chk", "Username"},
	}
	for _, tt := range tests {
		tag, label := Ldtpize(tt.node)
		if tag != tt.wantTag || label != tt.wantLabel {
			t.Errorf("Ldtpize(%v) = (%q, %q), want (%q, %q)", tt.node, tag, label, tt.wantTag, tt.wantLabel)
		}
	}
}

func TestIdentifier(t *testing.T) {
	win := loginWindow().Find("login", "Log In")
	if got := Identifier(win.ChildAt(2)); got != "btnOK" {
		t.Errorf("Identifier(OK.) = %q, want %q", got, "btnOK")
	}
	if got := Identifier(win.ChildAt(4)); got != "pnl" {
		t.Errorf("Identifier(unnamed panel) = %q, want %q", got, "pnl")
	}
}

func TestCleanLabel(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Save As...", "SaveAs"},
		{"Name: ", "Name"},
		{"a:b.", "a:b"},
		{" spaced  out ", "spacedout"},
		{"", ""},
		{"...", ""},
	}
	for _, tt := range tests {
		if got := CleanLabel(tt.in); got != tt.want {
			t.Errorf("CleanLabel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
