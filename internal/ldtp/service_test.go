package ldtp

import (
	"context"
	"errors"
	"reflect"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/mj1618/ldtpd/internal/model"
	"github.com/mj1618/ldtpd/internal/platform/sim"
	"github.com/mj1618/ldtpd/internal/registry"
	"github.com/mj1618/ldtpd/internal/resolve"
	"github.com/mj1618/ldtpd/internal/waiter"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func fixture() *model.Desktop {
	return &model.Desktop{Applications: []*model.Application{
		{
			Name: "gnome-calculator",
			Windows: []*model.Element{{
				Role: model.RoleFrame, Name: "Calculator",
				Bounds: &model.Rect{X: 10, Y: 20, Width: 300, Height: 400},
				Children: []*model.Element{{
					Role: model.RolePanel,
					Children: []*model.Element{
						{Role: model.RolePushButton, Name: "Clear", Actions: []string{"click"}, Bounds: &model.Rect{X: 1, Y: 2, Width: 3, Height: 4}},
						{Role: model.RolePushButton, Name: "7", Actions: []string{"click"}},
						{ID: "result", Role: model.RoleLabel, Name: "Result:"},
						{Role: model.RoleText, LabelledBy: "result", Text: model.StringPtr("0"), Editable: true},
						{Role: model.RoleCheckBox, Name: "Advanced mode", Actions: []string{"click"}, States: []string{model.StateEnabled}},
						{Role: model.RoleSlider, Name: "Precision", Value: &model.ValueRange{Current: 5, Min: 0, Max: 10, Increment: 1}},
						{Role: model.RoleTable, Name: "History", Table: &model.TableShape{Rows: 2, Columns: 2}, Children: []*model.Element{
							{Role: model.RoleTableCell, Name: "a"}, {Role: model.RoleTableCell, Name: "b"},
							{Role: model.RoleTableCell, Name: "c", Text: model.StringPtr("42")}, {Role: model.RoleTableCell, Name: "d"},
						}},
						{Role: model.RoleList, Name: "Modes", Selectable: true, Children: []*model.Element{
							{Role: model.RoleListItem, Name: "Basic"},
							{Role: model.RoleListItem, Name: "Scientific"},
						}},
						{Role: model.RoleToggleButton, Name: "Mute", Actions: []string{"activate"}},
					},
				}},
			}},
		},
		{
			Name: "gedit",
			Windows: []*model.Element{{
				Role: model.RoleFrame, Name: "Untitled Document 1 - gedit",
				Children: []*model.Element{
					{Role: model.RoleMenuBar, Children: []*model.Element{
						{Role: model.RoleMenu, Name: "File", Actions: []string{"click"}, Children: []*model.Element{
							{Role: model.RoleMenuItem, Name: "Open...", Actions: []string{"click"}},
							{Role: model.RoleMenuItem, Name: "Save", Actions: []string{"click"}},
						}},
					}},
					{Role: model.RoleStatusBar, Name: "Ready", Text: model.StringPtr("Ln 1, Col 1")},
				},
			}},
		},
	}}
}

func newService(t *testing.T, clock waiter.Clock) (*Service, *sim.Desktop) {
	t.Helper()
	d := sim.New(fixture())
	reg, err := registry.New(d, nil)
	if err != nil {
		t.Fatalf("registry.New: %v", err)
	}
	if clock == nil {
		clock = waiter.NewManualClock(epoch)
	}
	return NewService(reg, Options{Clock: clock}), d
}

func call(t *testing.T, s *Service, name string, args ...any) any {
	t.Helper()
	out, err := s.Call(context.Background(), name, args, nil)
	if err != nil {
		t.Fatalf("%s(%v): %v", name, args, err)
	}
	return out
}

func TestClick_EndToEnd(t *testing.T) {
	s, d := newService(t, nil)
	if got := call(t, s, "click", "Calculator", "Clear"); got != 1 {
		t.Errorf("click = %v, want 1", got)
	}
	btn := d.Find("gnome-calculator", "Calculator", "Clear")
	if got := btn.Invocations("click"); got != 1 {
		t.Errorf("click invocations = %d, want 1", got)
	}
	if !model.HasState(btn, model.StateFocused) {
		t.Error("click should grab focus first")
	}
}

func TestClick_ToggleButtonAcceptsActivate(t *testing.T) {
	s, _ := newService(t, nil)
	call(t, s, "click", "Calculator", "Mute")
	if got := call(t, s, "verifytoggled", "Calculator", "tbtnMute"); got != 1 {
		t.Errorf("verifytoggled after click = %v, want 1", got)
	}
	if _, err := s.Call(context.Background(), "press", []any{"Calculator", "Mute"}, nil); err == nil {
		t.Error("press on a node without a press action should fail")
	}
}

func TestCall_Binding(t *testing.T) {
	s, _ := newService(t, nil)
	ctx := context.Background()

	if got, err := s.Call(ctx, "guiexist", nil, map[string]any{"window_name": "Calculator"}); err != nil || got != 1 {
		t.Errorf("guiexist(window_name=Calculator) = %v, %v, want 1", got, err)
	}

	tests := []struct {
		name   string
		method string
		args   []any
		kwargs map[string]any
		want   string
	}{
		{"missing", "click", []any{"Calculator"}, nil, `missing required argument "object_name"`},
		{"too many", "isalive", []any{1}, nil, "takes 0 arguments, 1 given"},
		{"unknown kwarg", "guiexist", []any{"Calculator"}, map[string]any{"colour": "red"}, `unexpected keyword argument "colour"`},
		{"duplicate", "guiexist", []any{"Calculator"}, map[string]any{"window_name": "x"}, `multiple values for argument "window_name"`},
		{"bad int", "selectindex", []any{"Calculator", "Modes", "two"}, nil, `argument "index"`},
		{"bad float", "wait", []any{[]any{}}, nil, `argument "timeout"`},
		{"unknown op", "launchapp", nil, nil, `unknown operation "launchapp"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Call(ctx, tt.method, tt.args, tt.kwargs)
			if !errors.Is(err, ErrInvalidArguments) {
				t.Fatalf("err = %v, want ErrInvalidArguments", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %q, want it to contain %q", err, tt.want)
			}
		})
	}
}

func TestExistence(t *testing.T) {
	s, _ := newService(t, nil)
	tests := []struct {
		method string
		args   []any
		want   int
	}{
		{"guiexist", []any{"Calculator"}, 1},
		{"guiexist", []any{"frmCalc*"}, 1},
		{"guiexist", []any{"Notepad"}, 0},
		{"guiexist", []any{"Calculator", "Clear"}, 1},
		{"guiexist", []any{"Calculator", "Equals"}, 0},
		{"objectexist", []any{"Calculator", "btn7"}, 1},
		{"objectexist", []any{"Notepad", "btn7"}, 0},
		{"isalive", nil, 1},
	}
	for _, tt := range tests {
		if got := call(t, s, tt.method, tt.args...); got != tt.want {
			t.Errorf("%s(%v) = %v, want %d", tt.method, tt.args, got, tt.want)
		}
	}
}

type hookClock struct {
	*waiter.ManualClock
	hook func()
}

func (c *hookClock) After(d time.Duration) <-chan time.Time {
	if c.hook != nil {
		c.hook()
		c.hook = nil
	}
	return c.ManualClock.After(d)
}

func TestWaits(t *testing.T) {
	clock := waiter.NewManualClock(epoch)
	s, _ := newService(t, clock)
	if got := call(t, s, "waittillguiexist", "Notepad", "", 3); got != 0 {
		t.Errorf("waittillguiexist(Notepad, 3) = %v, want 0", got)
	}
	if waits := clock.Waits(); len(waits) != 3 {
		t.Errorf("waited %v, want three 1s polls", waits)
	}
	if got := call(t, s, "waittillguiexist", "Calculator"); got != 1 {
		t.Errorf("waittillguiexist(Calculator) = %v, want 1", got)
	}
	if got := call(t, s, "waittillguinotexist", "Calculator", "Clear", 0); got != 0 {
		t.Errorf("waittillguinotexist(Calculator, Clear, 0) = %v, want 0", got)
	}

	before := len(clock.Waits())
	if got := call(t, s, "wait", 2); got != 1 {
		t.Errorf("wait(2) = %v, want 1", got)
	}
	if waits := clock.Waits()[before:]; !slices.Equal(waits, []time.Duration{time.Second, time.Second}) {
		t.Errorf("wait(2) slept %v, want [1s 1s]", waits)
	}
}

func TestWaitTillGuiNotExist_WindowCloses(t *testing.T) {
	clock := &hookClock{ManualClock: waiter.NewManualClock(epoch)}
	s, d := newService(t, clock)
	clock.hook = func() {
		d.RemoveWindow("gedit", "Untitled Document 1 - gedit")
	}
	if got := call(t, s, "waittillguinotexist", "*gedit"); got != 1 {
		t.Fatalf("waittillguinotexist = %v, want 1", got)
	}
	if waits := clock.Waits(); !slices.Equal(waits, []time.Duration{time.Second}) {
		t.Errorf("waited %v, want a single poll interval", waits)
	}
}

func TestLists(t *testing.T) {
	s, _ := newService(t, nil)
	if got := call(t, s, "getapplist"); !reflect.DeepEqual(got, []string{"gnome-calculator", "gedit"}) {
		t.Errorf("getapplist = %v", got)
	}
	if got := call(t, s, "getwindowlist"); !reflect.DeepEqual(got, []string{"frmCalculator", "frmUntitledDocument1-gedit"}) {
		t.Errorf("getwindowlist = %v", got)
	}
	want := []string{
		"frmCalculator", "pnl0", "btnClear", "btn7", "lblResult", "txtResult", "chkAdvancedmode",
		"sldrPrecision", "tblHistory", "lstModes", "lstBasic", "lstScientific", "tbtnMute",
	}
	if got := call(t, s, "getobjectlist", "Calculator"); !reflect.DeepEqual(got, want) {
		t.Errorf("getobjectlist = %v, want %v", got, want)
	}
}

func TestObjectInfo(t *testing.T) {
	s, _ := newService(t, nil)
	if got := call(t, s, "getobjectinfo", "Calculator", "txtResult"); !reflect.DeepEqual(got, []string{"key", "parent", "class", "child_index", "obj_index", "label_by"}) {
		t.Errorf("getobjectinfo(txtResult) = %v", got)
	}
	tests := []struct {
		object string
		prop   string
		want   any
	}{
		{"Clear", "class", "push_button"},
		{"7", "child_index", 1},
		{"Modes", "children", []string{"lstBasic", "lstScientific"}},
		{"txtResult", "label_by", "Result:"},
		{"btn#1", "key", "btn7"},
	}
	for _, tt := range tests {
		if got := call(t, s, "getobjectproperty", "Calculator", tt.object, tt.prop); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("getobjectproperty(%q, %q) = %v, want %v", tt.object, tt.prop, got, tt.want)
		}
	}
	if _, err := s.Call(context.Background(), "getobjectproperty", []any{"Calculator", "Clear", "colour"}, nil); err == nil {
		t.Error("unknown property should fail")
	}
}

func TestGetChild(t *testing.T) {
	s, _ := newService(t, nil)
	tests := []struct {
		args []any
		want []string
	}{
		{[]any{"Calculator", "", "push button"}, []string{"btnClear", "btn7"}},
		{[]any{"Calculator", "", "push button", true}, []string{"btnClear"}},
		{[]any{"Calculator", "Modes"}, []string{"lstBasic", "lstScientific"}},
		{[]any{"Calculator", "btn*", "push_button"}, []string{"btnClear", "btn7"}},
	}
	for _, tt := range tests {
		if got := call(t, s, "getchild", tt.args...); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("getchild(%v) = %v, want %v", tt.args, got, tt.want)
		}
	}
	_, err := s.Call(context.Background(), "getchild", []any{"Calculator", "", "menu"}, nil)
	if !errors.Is(err, ErrNoChild) {
		t.Errorf("getchild(role=menu) err = %v, want ErrNoChild", err)
	}
}

func TestFilterObjects(t *testing.T) {
	s, _ := newService(t, nil)
	got := call(t, s, "filterobjects", "Calculator", `class == "push_button" && label startsWith "C"`)
	if !reflect.DeepEqual(got, []string{"btnClear"}) {
		t.Errorf("filterobjects = %v, want [btnClear]", got)
	}
	got = call(t, s, "filterobjects", "Calculator", `len(children) > 1`)
	if !reflect.DeepEqual(got, []string{"pnl0", "lstModes"}) {
		t.Errorf("filterobjects(len(children) > 1) = %v, want [pnl0 lstModes]", got)
	}
	if _, err := s.Call(context.Background(), "filterobjects", []any{"Calculator", "class +"}, nil); err == nil {
		t.Error("invalid expression should fail")
	}
}

func TestStates(t *testing.T) {
	s, _ := newService(t, nil)
	if got := call(t, s, "verifycheck", "Calculator", "Advanced mode"); got != 0 {
		t.Errorf("verifycheck before check = %v, want 0", got)
	}
	call(t, s, "check", "Calculator", "Advanced mode")
	call(t, s, "check", "Calculator", "Advanced mode")
	if got := call(t, s, "verifycheck", "Calculator", "Advanced mode"); got != 1 {
		t.Errorf("verifycheck after check = %v, want 1", got)
	}
	if got := call(t, s, "getallstates", "Calculator", "Advanced mode"); !reflect.DeepEqual(got, []int{4, 8, 12}) {
		t.Errorf("getallstates = %v, want [4 8 12]", got)
	}
	call(t, s, "uncheck", "Calculator", "Advanced mode")
	tests := []struct {
		method string
		args   []any
		want   int
	}{
		{"verifyuncheck", []any{"Calculator", "Advanced mode"}, 1},
		{"verifyuncheck", []any{"Calculator", "Missing"}, 0},
		{"stateenabled", []any{"Calculator", "Advanced mode"}, 1},
		{"stateenabled", []any{"Calculator", "Clear"}, 0},
		{"hasstate", []any{"Calculator", "Advanced mode", "ENABLED"}, 1},
		{"hasstate", []any{"Calculator", "Advanced mode", "state_checked"}, 0},
		{"hasstate", []any{"Notepad", "x", "enabled"}, 0},
	}
	for _, tt := range tests {
		if got := call(t, s, tt.method, tt.args...); got != tt.want {
			t.Errorf("%s(%v) = %v, want %d", tt.method, tt.args, got, tt.want)
		}
	}
}

func TestText(t *testing.T) {
	s, _ := newService(t, nil)
	if got := call(t, s, "gettextvalue", "Calculator", "txtResult"); got != "0" {
		t.Errorf("gettextvalue = %v, want 0", got)
	}
	call(t, s, "settextvalue", "Calculator", "txtResult", "1234")
	if got := call(t, s, "getcharcount", "Calculator", "txtResult"); got != 4 {
		t.Errorf("getcharcount = %v, want 4", got)
	}
	if got := call(t, s, "getstatusbartext", "*gedit", "Ready"); got != "Ln 1, Col 1" {
		t.Errorf("getstatusbartext = %v", got)
	}
	_, err := s.Call(context.Background(), "settextvalue", []any{"Calculator", "Clear", "x"}, nil)
	if !errors.Is(err, model.ErrUnsupported) {
		t.Errorf("settextvalue on a button err = %v, want ErrUnsupported", err)
	}
}

func TestSelectMenuItem(t *testing.T) {
	s, d := newService(t, nil)
	for _, path := range []string{"File;Open...", "mnuFile;mnuOpen"} {
		call(t, s, "selectmenuitem", "*gedit", path)
	}
	open := d.Find("gedit", "Untitled Document 1 - gedit", "Open...")
	if got := open.Invocations("click"); got != 2 {
		t.Errorf("Open... clicked %d times, want 2", got)
	}
	if got := d.Find("gedit", "Untitled Document 1 - gedit", "File").Invocations("click"); got != 0 {
		t.Errorf("File clicked %d times, want 0", got)
	}
	_, err := s.Call(context.Background(), "selectmenuitem", []any{"*gedit", "File;Close"}, nil)
	if err == nil || !strings.Contains(err.Error(), `"Close"`) {
		t.Errorf("selectmenuitem(File;Close) err = %v, want a missing menu item error", err)
	}
}

func TestValueTableSelection(t *testing.T) {
	s, d := newService(t, nil)
	tests := []struct {
		method string
		want   any
	}{
		{"getvalue", 5.0},
		{"getminvalue", 0.0},
		{"getmaxvalue", 10.0},
		{"getminincrement", 1.0},
	}
	for _, tt := range tests {
		if got := call(t, s, tt.method, "Calculator", "Precision"); got != tt.want {
			t.Errorf("%s = %v, want %v", tt.method, got, tt.want)
		}
	}
	call(t, s, "setvalue", "Calculator", "Precision", 7)
	if got := call(t, s, "getvalue", "Calculator", "Precision"); got != 7.0 {
		t.Errorf("getvalue after setvalue = %v, want 7", got)
	}
	if _, err := s.Call(context.Background(), "setvalue", []any{"Calculator", "Precision", 11}, nil); err == nil {
		t.Error("setvalue out of range should fail")
	}

	if got := call(t, s, "getrowcount", "Calculator", "History"); got != 2 {
		t.Errorf("getrowcount = %v, want 2", got)
	}
	if got := call(t, s, "getcellvalue", "Calculator", "History", 1); got != "42" {
		t.Errorf("getcellvalue(1, 0) = %v, want 42", got)
	}
	if got := call(t, s, "getcellvalue", "Calculator", "History", 1, 1); got != "d" {
		t.Errorf("getcellvalue(1, 1) = %v, want d", got)
	}
	if _, err := s.Call(context.Background(), "getcellvalue", []any{"Calculator", "History", 5}, nil); err == nil {
		t.Error("getcellvalue out of range should fail")
	}

	call(t, s, "selectindex", "Calculator", "Modes", 1)
	if !model.HasState(d.Find("gnome-calculator", "Calculator", "Scientific"), "selected") {
		t.Error("Scientific should be selected")
	}
}

func TestSizesAndRemap(t *testing.T) {
	s, d := newService(t, nil)
	if got := call(t, s, "getwindowsize", "Calculator"); !reflect.DeepEqual(got, []int{10, 20, 300, 400}) {
		t.Errorf("getwindowsize = %v", got)
	}
	if got := call(t, s, "getobjectsize", "Calculator", "Clear"); !reflect.DeepEqual(got, []int{1, 2, 3, 4}) {
		t.Errorf("getobjectsize = %v", got)
	}

	panel := d.Find("gnome-calculator", "Calculator").ChildAt(0).(*sim.Node)
	panel.Append(&model.Element{Role: model.RolePushButton, Name: "Undo"})
	if got := call(t, s, "remap", "Calculator"); got != 1 {
		t.Errorf("remap = %v, want 1", got)
	}
	list := call(t, s, "getobjectlist", "Calculator").([]string)
	if !slices.Contains(list, "btnUndo") {
		t.Errorf("getobjectlist after remap = %v, want btnUndo", list)
	}
	_, err := s.Call(context.Background(), "remap", []any{"Notepad"}, nil)
	if !resolve.IsNotFound(err) {
		t.Errorf("remap(Notepad) err = %v, want not found", err)
	}
}

func TestOperations(t *testing.T) {
	ops := Operations()
	seen := make(map[string]bool)
	for i, op := range ops {
		if seen[op.Name] {
			t.Errorf("duplicate operation %q", op.Name)
		}
		seen[op.Name] = true
		if op.Help == "" || op.Run == nil {
			t.Errorf("operation %q is missing help or a handler", op.Name)
		}
		if i > 0 && ops[i-1].Name > op.Name {
			t.Errorf("Operations() not sorted at %q", op.Name)
		}
	}
	op, ok := Lookup("waittillguiexist")
	if !ok {
		t.Fatal("Lookup(waittillguiexist) failed")
	}
	if got, want := op.Signature(), `waittillguiexist(window_name, object_name="", guiTimeOut=30)`; got != want {
		t.Errorf("Signature() = %s, want %s", got, want)
	}
}
