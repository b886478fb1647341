package category

import "strings"

// Category is a genre books are filed under. Slug is unique.
type Category struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

// ============================================================
// ICONS
// ============================================================

const DefaultIcon = "fas fa-book"

// iconRules is checked in order; keys use spaces where category slugs use '-'.
var iconRules = []struct {
	key  string
	icon string
}{
	{"fiction", "fas fa-magic"},
	{"business", "fas fa-chart-line"},
	{"science", "fas fa-flask"},
	{"technology", "fas fa-microchip"},
	{"self help", "fas fa-heart"},
	{"philosophy", "fas fa-brain"},
	{"history", "fas fa-landmark"},
	{"biography", "fas fa-user-tie"},
	{"autobiography", "fas fa-user-edit"},
	{"romance", "fas fa-heart"},
	{"mystery", "fas fa-search"},
	{"thriller", "fas fa-exclamation-triangle"},
	{"fantasy", "fas fa-dragon"},
	{"sci fi", "fas fa-rocket"},
	{"horror", "fas fa-ghost"},
	{"poetry", "fas fa-feather-alt"},
	{"drama", "fas fa-theater-masks"},
	{"comedy", "fas fa-laugh"},
	{"adventure", "fas fa-compass"},
	{"travel", "fas fa-plane"},
	{"cooking", "fas fa-utensils"},
	{"health", "fas fa-heartbeat"},
	{"fitness", "fas fa-dumbbell"},
	{"education", "fas fa-graduation-cap"},
	{"reference", "fas fa-book-open"},
	{"children", "fas fa-baby"},
	{"young adult", "fas fa-star"},
	{"religion", "fas fa-pray"},
	{"spirituality", "fas fa-om"},
	{"psychology", "fas fa-brain"},
	{"sociology", "fas fa-users"},
	{"politics", "fas fa-balance-scale"},
	{"economics", "fas fa-coins"},
	{"finance", "fas fa-chart-pie"},
	{"marketing", "fas fa-bullhorn"},
	{"leadership", "fas fa-crown"},
	{"management", "fas fa-users-cog"},
	{"entrepreneurship", "fas fa-lightbulb"},
	{"investing", "fas fa-chart-bar"},
	{"real estate", "fas fa-home"},
	{"law", "fas fa-gavel"},
	{"medicine", "fas fa-stethoscope"},
	{"engineering", "fas fa-cogs"},
	{"mathematics", "fas fa-square-root-alt"},
	{"physics", "fas fa-atom"},
	{"chemistry", "fas fa-vial"},
	{"biology", "fas fa-dna"},
	{"astronomy", "fas fa-telescope"},
	{"geology", "fas fa-mountain"},
	{"environmental", "fas fa-leaf"},
	{"art", "fas fa-palette"},
	{"music", "fas fa-music"},
	{"photography", "fas fa-camera"},
	{"design", "fas fa-paint-brush"},
	{"architecture", "fas fa-building"},
	{"fashion", "fas fa-tshirt"},
	{"sports", "fas fa-trophy"},
	{"gaming", "fas fa-gamepad"},
	{"comics", "fas fa-comment-dots"},
	{"manga", "fas fa-comment-dots"},
	{"graphic novels", "fas fa-comment-dots"},
}

// IconFor maps a category name to a Font Awesome icon class.
// The name is lower-cased with '-' and '_' read as spaces; an exact match wins,
// then a substring match in either direction, otherwise DefaultIcon.
func IconFor(name string) string {
	normalized := strings.TrimSpace(strings.NewReplacer("-", " ", "_", " ").Replace(strings.ToLower(name)))
	if normalized == "" {
		return DefaultIcon
	}

	for _, rule := range iconRules {
		if rule.key == normalized {
			return rule.icon
		}
	}
	for _, rule := range iconRules {
		if strings.Contains(normalized, rule.key) || strings.Contains(rule.key, normalized) {
			return rule.icon
		}
	}
	return DefaultIcon
}

// Names returns the category names in order.
func Names(categories []Category) []string {
	names := make([]string, 0, len(categories))
	for _, c := range categories {
		names = append(names, c.Name)
	}
	return names
}
