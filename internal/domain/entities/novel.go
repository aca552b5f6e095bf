package entities

// Novel is a series available in the reader library.
type Novel struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Path  string `json:"path"`
}

// ChapterRef identifies a chapter in a novel's reading order.
type ChapterRef struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Number int    `json:"-"`
}

// Chapter is the translated text of a single chapter.
type Chapter struct {
	ID      string `json:"id"`
	Content string `json:"content"`
}
