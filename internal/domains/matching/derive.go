package matching

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// CategoryDef is a category create-books files books under.
type CategoryDef struct {
	Slug string
	Name string
}

var (
	CategoryFiction    = CategoryDef{Slug: "fiction", Name: "Fiction"}
	CategoryBusiness   = CategoryDef{Slug: "business", Name: "Business"}
	CategoryScience    = CategoryDef{Slug: "science", Name: "Science"}
	CategoryTechnology = CategoryDef{Slug: "technology", Name: "Technology"}
	CategorySelfHelp   = CategoryDef{Slug: "self-help", Name: "Self-Help"}
)

// DefaultCategories are ensured before any book is created.
var DefaultCategories = []CategoryDef{
	CategoryFiction, CategoryBusiness, CategoryScience, CategoryTechnology, CategorySelfHelp,
}

const defaultAuthor = "Various Authors"

// titleRule maps a known image to its book. Every keyword must occur in the normalised name.
type titleRule struct {
	keywords []string
	title    string
	author   string
}

var titleRules = []titleRule{
	{[]string{"random walk"}, "A Random Walk Down Wall Street", "Burton G. Malkiel"},
	{[]string{"oliver"}, "Oliver Twist", "Charles Dickens"},
	{[]string{"serial killer"}, "My Sister the Serial Killer", "Oyinkan Braithwaite"},
	{[]string{"manga", "guide"}, "The Manga Guide to Molecular Biology", "Masaharu Takemura"},
	{[]string{"manga", "master"}, "Mastering Manga: How to Draw Manga Faces", "Christopher Hart"},
	{[]string{"linux"}, "Linux Tips, Tricks & Hacks", "Linux Community"},
	{[]string{"hacking"}, "The Basics of Hacking and Penetration Testing", "Patrick Engebretson"},
	{[]string{"intelligent"}, "The Intelligent Investor", "Benjamin Graham"},
	{[]string{"science"}, "The Handy Science Answer Book", "Science Reference Team"},
	{[]string{"penis"}, "Penis Exercises: A Healthy Book for Enhancement", "Health Publications"},
	{[]string{"purple"}, "Purple Hibiscus", "Chimamanda Ngozi Adichie"},
}

func (r titleRule) matches(name string) bool {
	for _, k := range r.keywords {
		if !strings.Contains(name, k) {
			return false
		}
	}
	return true
}

// categoryRules are checked in order; no hit means Fiction.
var categoryRules = []struct {
	keywords []string
	category CategoryDef
}{
	{[]string{"fiction", "oliver", "serial", "purple"}, CategoryFiction},
	{[]string{"business", "random walk", "intelligent"}, CategoryBusiness},
	{[]string{"science", "manga guide"}, CategoryScience},
	{[]string{"hacking", "linux", "technology"}, CategoryTechnology},
	{[]string{"penis", "exercise", "health"}, CategorySelfHelp},
}

var recommendedKeywords = []string{"random walk", "intelligent", "oliver", "serial killer", "manga guide"}

var summaryTemplates = map[string]string{
	CategoryFiction.Name:    "A captivating %s that will keep you engaged from start to finish.",
	CategoryBusiness.Name:   "Essential business knowledge and strategies for success in %s.",
	CategoryScience.Name:    "Explore the fascinating world of science through %s.",
	CategoryTechnology.Name: "Master the latest technology trends and techniques in %s.",
	CategorySelfHelp.Name:   "Transform your life with practical advice and insights from %s.",
}

// DerivedBook is what create-books infers from an image file name.
type DerivedBook struct {
	Title       string
	Author      string
	Summary     string
	Category    CategoryDef
	Recommended bool
}

// Fiction and Business mirror the homepage flags of the chosen category.
func (d DerivedBook) Fiction() bool  { return d.Category == CategoryFiction }
func (d DerivedBook) Business() bool { return d.Category == CategoryBusiness }

// DeriveBook infers title, author, category, recommendation and summary from an image name.
//
//	"oliver.jpeg" → Oliver Twist / Charles Dickens / Fiction / recommended
func DeriveBook(filename string) DerivedBook {
	name := NormalizeFilename(filename)

	d := DerivedBook{
		Title:       capitalizeWords(name),
		Author:      defaultAuthor,
		Category:    deriveCategory(name),
		Recommended: containsAny(name, recommendedKeywords),
	}
	for _, r := range titleRules {
		if r.matches(name) {
			d.Title, d.Author = r.title, r.author
			break
		}
	}
	d.Summary = summaryFor(d.Title, d.Category)
	return d
}

func deriveCategory(name string) CategoryDef {
	for _, r := range categoryRules {
		if containsAny(name, r.keywords) {
			return r.category
		}
	}
	return CategoryFiction
}

func summaryFor(title string, c CategoryDef) string {
	tmpl, ok := summaryTemplates[c.Name]
	if !ok {
		tmpl = "An informative and engaging book about %s."
	}
	return fmt.Sprintf(tmpl, strings.ToLower(title))
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

// capitalizeWords upper-cases the first letter of every word and lower-cases the rest.
func capitalizeWords(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + strings.ToLower(w[size:])
	}
	return strings.Join(words, " ")
}
