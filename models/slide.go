package models

// Slide is one page of a generated deck. Explanation doubles as speaker notes.
type Slide struct {
	Title        string   `json:"title" jsonschema:"description=Slide title"`
	BulletPoints []string `json:"bulletPoints" jsonschema:"description=Concise high level summary points"`
	Explanation  string   `json:"explanation" jsonschema:"description=Detailed markdown explanation and speaker notes"`
}
