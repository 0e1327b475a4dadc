package ldtp

import "context"

func done(err error) (any, error) {
	if err != nil {
		return nil, err
	}
	return 1, nil
}

func result(v any, err error) (any, error) {
	if err != nil {
		return nil, err
	}
	return v, nil
}

// objectAction adapts a (window, object) mutation.
func objectAction(fn func(s *Service, window, object string) error) func(context.Context, *Service, Params) (any, error) {
	return func(_ context.Context, s *Service, p Params) (any, error) {
		return done(fn(s, p.String("window_name"), p.String("object_name")))
	}
}

// objectCheck adapts a (window, object) predicate.
func objectCheck(fn func(s *Service, window, object string) bool) func(context.Context, *Service, Params) (any, error) {
	return func(_ context.Context, s *Service, p Params) (any, error) {
		return flag(fn(s, p.String("window_name"), p.String("object_name"))), nil
	}
}

// objectQuery adapts a (window, object) read.
func objectQuery[T any](fn func(s *Service, window, object string) (T, error)) func(context.Context, *Service, Params) (any, error) {
	return func(_ context.Context, s *Service, p Params) (any, error) {
		return result(fn(s, p.String("window_name"), p.String("object_name")))
	}
}

var windowObject = []Param{windowName, objectName}

var operations = []Operation{
	{
		Name: "getapplist",
		Help: "List the names of the running accessible applications.",
		Run: func(_ context.Context, s *Service, _ Params) (any, error) {
			return s.GetAppList(), nil
		},
	},
	{
		Name: "getwindowlist",
		Help: "List every open window by identifier.",
		Run: func(_ context.Context, s *Service, _ Params) (any, error) {
			return s.GetWindowList(), nil
		},
	},
	{
		Name: "isalive",
		Help: "Report that the server is alive.",
		Run: func(context.Context, *Service, Params) (any, error) {
			return 1, nil
		},
	},
	{
		Name:   "guiexist",
		Help:   "Check whether a window, or an object in it, exists.",
		Params: []Param{windowName, optional("object_name", KindString, "")},
		Run: func(ctx context.Context, s *Service, p Params) (any, error) {
			return flag(s.GuiExist(ctx, p.String("window_name"), p.String("object_name"))), nil
		},
	},
	{
		Name:   "objectexist",
		Help:   "Check whether an object exists in a window.",
		Params: windowObject,
		Run: func(ctx context.Context, s *Service, p Params) (any, error) {
			return flag(s.GuiExist(ctx, p.String("window_name"), p.String("object_name"))), nil
		},
	},
	{
		Name:   "waittillguiexist",
		Help:   "Wait until a window, or an object in it, exists.",
		Params: []Param{windowName, optional("object_name", KindString, ""), optional("guiTimeOut", KindFloat, 30)},
		Run: func(ctx context.Context, s *Service, p Params) (any, error) {
			return flag(s.WaitTillGuiExist(ctx, p.String("window_name"), p.String("object_name"), p.Float("guiTimeOut"))), nil
		},
	},
	{
		Name:   "waittillguinotexist",
		Help:   "Wait until a window, or an object in it, no longer exists.",
		Params: []Param{windowName, optional("object_name", KindString, ""), optional("guiTimeOut", KindFloat, 30)},
		Run: func(ctx context.Context, s *Service, p Params) (any, error) {
			return flag(s.WaitTillGuiNotExist(ctx, p.String("window_name"), p.String("object_name"), p.Float("guiTimeOut"))), nil
		},
	},
	{
		Name:   "wait",
		Help:   "Sleep for the given number of seconds.",
		Params: []Param{optional("timeout", KindFloat, 5)},
		Run: func(ctx context.Context, s *Service, p Params) (any, error) {
			s.Wait(ctx, p.Float("timeout"))
			return 1, nil
		},
	},
	{
		Name:   "remap",
		Help:   "Rebuild the application map of a window.",
		Params: []Param{windowName},
		Run: func(_ context.Context, s *Service, p Params) (any, error) {
			return done(s.Remap(p.String("window_name")))
		},
	},
	{
		Name:   "getwindowsize",
		Help:   "Return [x, y, width, height] of a window.",
		Params: []Param{windowName},
		Run: func(_ context.Context, s *Service, p Params) (any, error) {
			return result(s.GetWindowSize(p.String("window_name")))
		},
	},
	{
		Name:   "getobjectlist",
		Help:   "List the identifiers of every object in a window.",
		Params: []Param{windowName},
		Run: func(_ context.Context, s *Service, p Params) (any, error) {
			return result(s.GetObjectList(p.String("window_name")))
		},
	},
	{
		Name:   "getobjectinfo",
		Help:   "List the non-empty properties of an object.",
		Params: windowObject,
		Run:    objectQuery((*Service).GetObjectInfo),
	},
	{
		Name:   "getobjectproperty",
		Help:   "Return one property of an object.",
		Params: []Param{windowName, objectName, required("prop")},
		Run: func(_ context.Context, s *Service, p Params) (any, error) {
			return result(s.GetObjectProperty(p.String("window_name"), p.String("object_name"), p.String("prop")))
		},
	},
	{
		Name: "getchild",
		Help: "List objects matching a name, a role, or both.",
		Params: []Param{
			windowName,
			optional("child_name", KindString, ""),
			optional("role", KindString, ""),
			optional("first", KindBool, false),
		},
		Run: func(_ context.Context, s *Service, p Params) (any, error) {
			return result(s.GetChild(p.String("window_name"), p.String("child_name"), p.String("role"), p.Bool("first")))
		},
	},
	{
		Name:   "filterobjects",
		Help:   "List objects for which a boolean expression over their properties holds.",
		Params: []Param{windowName, required("expression")},
		Run: func(_ context.Context, s *Service, p Params) (any, error) {
			return result(s.FilterObjects(p.String("window_name"), p.String("expression")))
		},
	},
	{
		Name:   "getallstates",
		Help:   "Return the state codes of an object.",
		Params: windowObject,
		Run:    objectQuery((*Service).GetAllStates),
	},
	{
		Name:   "hasstate",
		Help:   "Check whether an object has a state.",
		Params: []Param{windowName, objectName, required("state")},
		Run: func(_ context.Context, s *Service, p Params) (any, error) {
			return flag(s.HasState(p.String("window_name"), p.String("object_name"), p.String("state"))), nil
		},
	},
	{Name: "stateenabled", Help: "Check whether an object is enabled.", Params: windowObject, Run: objectCheck((*Service).StateEnabled)},
	{Name: "verifycheck", Help: "Check whether an object is checked.", Params: windowObject, Run: objectCheck((*Service).VerifyCheck)},
	{Name: "verifyuncheck", Help: "Check whether an object is unchecked.", Params: windowObject, Run: objectCheck((*Service).VerifyUncheck)},
	{Name: "verifytoggled", Help: "Check whether a toggle is on.", Params: windowObject, Run: objectCheck((*Service).VerifyCheck)},
	{Name: "getobjectsize", Help: "Return [x, y, width, height] of an object.", Params: windowObject, Run: objectQuery((*Service).GetObjectSize)},
	{Name: "grabfocus", Help: "Focus an object.", Params: windowObject, Run: objectAction((*Service).GrabFocus)},
	{Name: "click", Help: "Click an object.", Params: windowObject, Run: objectAction((*Service).Click)},
	{Name: "press", Help: "Press an object.", Params: windowObject, Run: objectAction((*Service).Press)},
	{Name: "check", Help: "Check an object unless already checked.", Params: windowObject, Run: objectAction((*Service).Check)},
	{Name: "uncheck", Help: "Uncheck an object if checked.", Params: windowObject, Run: objectAction((*Service).Uncheck)},
	{
		Name:   "selectmenuitem",
		Help:   "Click a menu item given as a ';'-separated path, e.g. mnuFile;mnuOpen.",
		Params: windowObject,
		Run:    objectAction((*Service).SelectMenuItem),
	},
	{Name: "gettextvalue", Help: "Return the text of an object.", Params: windowObject, Run: objectQuery((*Service).GetTextValue)},
	{Name: "getstatusbartext", Help: "Return the text of a status bar.", Params: windowObject, Run: objectQuery((*Service).GetTextValue)},
	{
		Name:   "settextvalue",
		Help:   "Replace the text of an object.",
		Params: []Param{windowName, objectName, optional("data", KindString, "")},
		Run: func(_ context.Context, s *Service, p Params) (any, error) {
			return done(s.SetTextValue(p.String("window_name"), p.String("object_name"), p.String("data")))
		},
	},
	{Name: "getcharcount", Help: "Return the length of an object's text.", Params: windowObject, Run: objectQuery((*Service).GetCharCount)},
	{Name: "getvalue", Help: "Return the numeric value of an object.", Params: windowObject, Run: objectQuery((*Service).GetValue)},
	{
		Name:   "setvalue",
		Help:   "Set the numeric value of an object.",
		Params: []Param{windowName, objectName, {Name: "data", Kind: KindFloat}},
		Run: func(_ context.Context, s *Service, p Params) (any, error) {
			return done(s.SetValue(p.String("window_name"), p.String("object_name"), p.Float("data")))
		},
	},
	{Name: "getminvalue", Help: "Return the minimum value of an object.", Params: windowObject, Run: objectQuery((*Service).GetMinValue)},
	{Name: "getmaxvalue", Help: "Return the maximum value of an object.", Params: windowObject, Run: objectQuery((*Service).GetMaxValue)},
	{Name: "getminincrement", Help: "Return the minimum increment of an object.", Params: windowObject, Run: objectQuery((*Service).GetMinIncrement)},
	{Name: "getrowcount", Help: "Return the number of rows of a table.", Params: windowObject, Run: objectQuery((*Service).GetRowCount)},
	{
		Name:   "getcellvalue",
		Help:   "Return the text of a table cell.",
		Params: []Param{windowName, objectName, {Name: "row", Kind: KindInt}, optional("column", KindInt, 0)},
		Run: func(_ context.Context, s *Service, p Params) (any, error) {
			return result(s.GetCellValue(p.String("window_name"), p.String("object_name"), p.Int("row"), p.Int("column")))
		},
	},
	{
		Name:   "selectindex",
		Help:   "Select the child at an index.",
		Params: []Param{windowName, objectName, {Name: "index", Kind: KindInt}},
		Run: func(_ context.Context, s *Service, p Params) (any, error) {
			return done(s.SelectIndex(p.String("window_name"), p.String("object_name"), p.Int("index")))
		},
	},
}
