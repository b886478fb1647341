package matching

import "strings"

// AssetKind selects which known filename a keyword rule resolves to.
type AssetKind int

const (
	AssetImage AssetKind = iota
	AssetPDF
)

func (k AssetKind) String() string {
	if k == AssetPDF {
		return "pdf"
	}
	return "image"
}

// keywordRule routes a well-known title to its historical asset.
type keywordRule struct {
	Keyword string
	Image   string
	PDF     string
}

func (r keywordRule) file(kind AssetKind) string {
	if kind == AssetPDF {
		return r.PDF
	}
	return r.Image
}

// keywordRules are checked in order; only the first rule whose keyword occurs in the
// lower-cased title is consulted.
var keywordRules = []keywordRule{
	{"random walk", "A_Random_Walk.jpeg", "A_Random_Walk_Down_Wall_Street.pdf"},
	{"oliver", "oliver.jpeg", "oliver-twist.pdf"},
	{"serial killer", "serial_killer.jpg", "My_Sister_the_Serial_Killer.pdf"},
	{"manga guide", "manga guide.jpeg", "The_Manga_Guide_to_Molecular_Biology__PDFDrive_.pdf"},
	{"manga master", "manga master.jpeg", "Mastering_Manga_How_to_Draw_Manga_Faces__PDFDrive_.pdf"},
	{"linux", "linux_tips.jpeg", "Linux_Tips_Tricks_PPS__Hacks_Vol_3.pdf"},
	{"hacking", "basics_of_hacking.jpeg", "The_Basics_Of_Hacking_And_Penetration_Testing__Ethical_Hacking_And_Penetration_Testing.pdf"},
	{"intelligent", "intelligent.jpg", "The_Intelligent_Investor.pdf"},
	{"science", "science.jpeg", "The_Handy_Science_Answer_Book_The_Handy_Answer_Book_Series____PDFDrive_.pdf"},
	{"penis", "penis exersice.jpeg", "Penis_Exercises_A_Healthy_Book_for_Enlargement_Enhancement_Hardness__Health__PDFDrive_.pdf"},
	{"purple", "purple.jpeg", "Purple_Hibiscus.pdf"},
}

// ruleFor returns the first rule whose keyword occurs in text.
func ruleFor(text string) (keywordRule, bool) {
	for _, r := range keywordRules {
		if strings.Contains(text, r.Keyword) {
			return r, true
		}
	}
	return keywordRule{}, false
}
