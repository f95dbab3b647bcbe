package site

// Section is one block of the home page.
type Section struct {
	ID    string
	Label string
	// Nav marks sections linked from the header.
	Nav bool
}

var sections = []Section{
	{ID: "hero"},
	{ID: "intro"},
	{ID: "projects", Label: "Projects", Nav: true},
	{ID: "experience", Label: "Experience", Nav: true},
	{ID: "integrations", Label: "Activity", Nav: true},
	{ID: "footer"},
}

// Sections returns the home page sections in render order.
func Sections() []Section {
	out := make([]Section, len(sections))
	copy(out, sections)
	return out
}

// NavSections returns the sections linked from the header.
func NavSections() []Section {
	var out []Section
	for _, s := range sections {
		if s.Nav {
			out = append(out, s)
		}
	}
	return out
}

// TimelineSide places timeline entries alternately left and right.
func TimelineSide(i int) string {
	if i%2 == 0 {
		return "left"
	}
	return "right"
}
