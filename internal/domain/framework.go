package domain

// ColumnTemplate describes one column of a retrospective framework.
type ColumnTemplate struct {
	Name  string
	Color string
}

// frameworks is the fixed set of board templates. Column order is the
// slice order; boards copy the template at creation and never change it.
var frameworks = map[string][]ColumnTemplate{
	"kpt": {
		{Name: "Keep", Color: "#22c55e"},
		{Name: "Problem", Color: "#ef4444"},
		{Name: "Try", Color: "#3b82f6"},
	},
	"ssc": {
		{Name: "Start", Color: "#22c55e"},
		{Name: "Stop", Color: "#ef4444"},
		{Name: "Continue", Color: "#3b82f6"},
	},
	"fdl": {
		{Name: "Fun", Color: "#eab308"},
		{Name: "Done", Color: "#22c55e"},
		{Name: "Learn", Color: "#3b82f6"},
	},
	"msg": {
		{Name: "Mad", Color: "#ef4444"},
		{Name: "Sad", Color: "#6366f1"},
		{Name: "Glad", Color: "#22c55e"},
	},
	"4ls": {
		{Name: "Liked", Color: "#22c55e"},
		{Name: "Learned", Color: "#3b82f6"},
		{Name: "Lacked", Color: "#ef4444"},
		{Name: "Longed for", Color: "#a855f7"},
	},
}

func FrameworkColumns(framework string) ([]ColumnTemplate, bool) {
	columns, ok := frameworks[framework]
	return columns, ok
}
