package admin

import "strings"

// Tab is a section of the admin dashboard.
type Tab string

const (
	TabCourses  Tab = "courses"
	TabCohorts  Tab = "cohorts"
	TabMembers  Tab = "members"
	TabSettings Tab = "settings"
)

// Tabs lists the dashboard sections in display order.
var Tabs = []Tab{TabCourses, TabCohorts, TabMembers, TabSettings}

// ParseTab reads the tab from a URL fragment such as "#members".
// Unknown or empty fragments select the courses tab.
func ParseTab(fragment string) Tab {
	name := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(fragment), "#"))
	for _, tab := range Tabs {
		if string(tab) == name {
			return tab
		}
	}
	return TabCourses
}
