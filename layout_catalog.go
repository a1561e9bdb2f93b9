package variation

// Placement names where a layout puts a region.
type Placement string

const (
	PlacementLeft     Placement = "left"
	PlacementRight    Placement = "right"
	PlacementTop      Placement = "top"
	PlacementBottom   Placement = "bottom"
	PlacementInline   Placement = "inline"
	PlacementFloating Placement = "floating"
	PlacementHidden   Placement = "hidden"
)

// SelectorSet describes where interactive elements live for a layout. Values
// are CSS selector templates.
type SelectorSet struct {
	Container     string `json:"container"`
	Panel         string `json:"panel"`
	Toolbar       string `json:"toolbar"`
	PrimaryAction string `json:"primary_action"`
	Search        string `json:"search"`
	List          string `json:"list"`
	Item          string `json:"item"`
}

// StyleBundle carries the class names a layout applies.
type StyleBundle struct {
	Container string `json:"container"`
	Panel     string `json:"panel"`
	Toolbar   string `json:"toolbar"`
	Button    string `json:"button"`
}

// LayoutVariant is one entry of the static layout catalog.
type LayoutVariant struct {
	ID            int         `json:"id"`
	Name          string      `json:"name"`
	Panel         Placement   `json:"panel"`
	Toolbar       Placement   `json:"toolbar"`
	PrimaryAction Placement   `json:"primary_action"`
	Selectors     SelectorSet `json:"selectors"`
	Styles        StyleBundle `json:"styles"`
}

// CanonicalLayoutID identifies the layout used for canonical seeds.
const CanonicalLayoutID = 1

func layoutSelectors(name string) SelectorSet {
	root := `[data-layout="` + name + `"]`
	return SelectorSet{
		Container:     root,
		Panel:         root + " [data-region=panel]",
		Toolbar:       root + " [data-region=toolbar]",
		PrimaryAction: root + " [data-action=primary]",
		Search:        root + " input[type=search]",
		List:          root + " [data-region=list]",
		Item:          root + " [data-region=list] > [data-item]",
	}
}

func layoutStyles(name string) StyleBundle {
	return StyleBundle{
		Container: "layout layout--" + name,
		Panel:     "layout__panel layout__panel--" + name,
		Toolbar:   "layout__toolbar layout__toolbar--" + name,
		Button:    "btn btn--" + name,
	}
}

func newLayout(id int, name string, panel, toolbar, action Placement) LayoutVariant {
	return LayoutVariant{
		ID:            id,
		Name:          name,
		Panel:         panel,
		Toolbar:       toolbar,
		PrimaryAction: action,
		Selectors:     layoutSelectors(name),
		Styles:        layoutStyles(name),
	}
}

// DefaultLayouts returns the built-in catalog ordered by ID (1..10). A new
// slice is returned on every call.
func DefaultLayouts() []LayoutVariant {
	return []LayoutVariant{
		newLayout(1, "classic", PlacementLeft, PlacementTop, PlacementRight),
		newLayout(2, "mirrored", PlacementRight, PlacementTop, PlacementLeft),
		newLayout(3, "stacked", PlacementTop, PlacementTop, PlacementBottom),
		newLayout(4, "split-bottom", PlacementBottom, PlacementTop, PlacementInline),
		newLayout(5, "floating-actions", PlacementLeft, PlacementBottom, PlacementFloating),
		newLayout(6, "compact", PlacementHidden, PlacementTop, PlacementInline),
		newLayout(7, "toolbar-left", PlacementRight, PlacementLeft, PlacementBottom),
		newLayout(8, "wide-panel", PlacementLeft, PlacementBottom, PlacementTop),
		newLayout(9, "inverted", PlacementBottom, PlacementBottom, PlacementLeft),
		newLayout(10, "minimal", PlacementHidden, PlacementHidden, PlacementFloating),
	}
}
