package domain

import "strings"

// AudioAuthor is an author as reported by LibriVox
type AudioAuthor struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// Name formats the author for display
func (a AudioAuthor) Name() string {
	return strings.TrimSpace(a.FirstName + " " + a.LastName)
}

// Section is one chapter of an audiobook
type Section struct {
	ID            string `json:"id"`
	SectionNumber string `json:"section_number"`
	Title         string `json:"title"`
	ListenURL     string `json:"listen_url"`
	PlayTime      string `json:"playtime"`
}

// Genre is a LibriVox genre tag
type Genre struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Audiobook is a LibriVox recording with its ordered sections
type Audiobook struct {
	ID              string        `json:"id"`
	Title           string        `json:"title"`
	Description     string        `json:"description"`
	DescriptionText string        `json:"description_text,omitempty"`
	Language        string        `json:"language"`
	CopyrightYear   string        `json:"copyright_year"`
	TotalTime       string        `json:"totaltime"`
	URLTextSource   string        `json:"url_text_source"`
	URLLibriVox     string        `json:"url_librivox"`
	URLZipFile      string        `json:"url_zip_file"`
	Authors         []AudioAuthor `json:"authors"`
	Sections        []Section     `json:"sections"`
	Genres          []Genre       `json:"genres"`
	CoverURL        string        `json:"cover_url,omitempty"`
}

// AuthorNames joins the author names for display
func (a *Audiobook) AuthorNames() string {
	names := make([]string, 0, len(a.Authors))
	for _, au := range a.Authors {
		names = append(names, au.Name())
	}
	return strings.Join(names, ", ")
}

// Track returns the section at index, clamped to the available sections
func (a *Audiobook) Track(index int) (Section, int, bool) {
	if len(a.Sections) == 0 {
		return Section{}, 0, false
	}
	if index < 0 {
		index = 0
	}
	if index >= len(a.Sections) {
		index = len(a.Sections) - 1
	}
	return a.Sections[index], index, true
}
