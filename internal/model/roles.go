package model

import "strings"

// Role names as reported by the accessibility layer.
const (
	RoleApplication     = "application"
	RoleFrame           = "frame"
	RoleDialog          = "dialog"
	RoleAlert           = "alert"
	RoleWindow          = "window"
	RolePushButton      = "push button"
	RoleToggleButton    = "toggle button"
	RoleCheckBox        = "check box"
	RoleRadioButton     = "radio button"
	RoleComboBox        = "combo box"
	RoleMenuBar         = "menu bar"
	RoleMenu            = "menu"
	RoleMenuItem        = "menu item"
	RoleCheckMenuItem   = "check menu item"
	RoleRadioMenuItem   = "radio menu item"
	RoleLabel           = "label"
	RoleText            = "text"
	RolePasswordText    = "password text"
	RoleTable           = "table"
	RoleTreeTable       = "tree table"
	RoleTableCell       = "table cell"
	RoleList            = "list"
	RoleListItem        = "list item"
	RolePageTabList     = "page tab list"
	RolePageTab         = "page tab"
	RolePanel           = "panel"
	RoleFiller          = "filler"
	RoleScrollPane      = "scroll pane"
	RoleScrollBar       = "scroll bar"
	RoleSlider          = "slider"
	RoleSpinButton      = "spin button"
	RoleStatusBar       = "status bar"
	RoleToolBar         = "tool bar"
	RoleProgressBar     = "progress bar"
	RoleSplitPane       = "split pane"
	RoleSeparator       = "separator"
	RoleIcon            = "icon"
	RoleImage           = "image"
	RoleCalendar        = "calendar"
	RoleTree            = "tree"
	RoleTreeItem        = "tree item"
	RoleHTMLContainer   = "html container"
	RoleLayeredPane     = "layered pane"
	RoleOptionPane      = "option pane"
	RoleFontChooser     = "font chooser"
	RoleFileChooser     = "file chooser"
	RoleColorChooser    = "color chooser"
	RoleEmbedded        = "embedded component"
	RoleParagraph       = "paragraph"
	RoleHeading         = "heading"
	RoleLink            = "link"
	RoleTableColumnHead = "table column header"
	RoleTableRowHeader  = "table row header"
)

// UnknownTag is the abbreviation for roles missing from RoleMap.
const UnknownTag = "ukn"

// RoleMap maps accessibility role names to the short tags used as the
// prefix of generated identifiers.
var RoleMap = map[string]string{
	RoleFrame:           "frm",
	RoleDialog:          "dlg",
	RoleAlert:           "dlg",
	RoleWindow:          "frm",
	RolePushButton:      "btn",
	RoleToggleButton:    "tbtn",
	RoleCheckBox:        "chk",
	RoleRadioButton:     "rbtn",
	RoleComboBox:        "cbo",
	RoleMenuBar:         "mbr",
	RoleMenu:            "mnu",
	RoleMenuItem:        "mnu",
	RoleCheckMenuItem:   "mnu",
	RoleRadioMenuItem:   "mnu",
	RoleLabel:           "lbl",
	RoleText:            "txt",
	RolePasswordText:    "txt",
	RoleTable:           "tbl",
	RoleTreeTable:       "ttbl",
	RoleTableCell:       "tblc",
	RoleList:            "lst",
	RoleListItem:        "lst",
	RolePageTabList:     "ptl",
	RolePageTab:         "ptab",
	RolePanel:           "pnl",
	RoleFiller:          "flr",
	RoleScrollPane:      "scpn",
	RoleScrollBar:       "scbr",
	RoleSlider:          "sldr",
	RoleSpinButton:      "sbtn",
	RoleStatusBar:       "stat",
	RoleToolBar:         "tbar",
	RoleProgressBar:     "pbar",
	RoleSplitPane:       "splt",
	RoleSeparator:       "spr",
	RoleIcon:            "ico",
	RoleImage:           "img",
	RoleCalendar:        "cal",
	RoleTree:            "tree",
	RoleTreeItem:        "tree",
	RoleHTMLContainer:   "html",
	RoleLayeredPane:     "pane",
	RoleOptionPane:      "opan",
	RoleFontChooser:     "fchr",
	RoleFileChooser:     "dlg",
	RoleColorChooser:    "cchr",
	RoleEmbedded:        "emb",
	RoleParagraph:       "txt",
	RoleHeading:         "hdg",
	RoleLink:            "lnk",
	RoleTableColumnHead: "tch",
	RoleTableRowHeader:  "trh",
}

// MapRole converts a role name to its abbreviation.
func MapRole(role string) string {
	if short, ok := RoleMap[role]; ok {
		return short
	}
	return UnknownTag
}

// RoleClass returns the class name recorded for a role: the role name
// with spaces replaced by underscores.
func RoleClass(role string) string {
	return strings.ReplaceAll(role, " ", "_")
}

// IsCheckable reports whether activating a node of the given role flips
// its checked state.
func IsCheckable(role string) bool {
	switch role {
	case RoleCheckBox, RoleToggleButton, RoleRadioButton,
		RoleCheckMenuItem, RoleRadioMenuItem:
		return true
	}
	return false
}
