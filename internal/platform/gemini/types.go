package gemini

// promptData is the data passed to the prompt template.
type promptData struct {
	Headword       string
	SourceLanguage string
	TargetLanguage string
}

// responseSchema is the JSON document the model is asked to return.
type responseSchema struct {
	Meanings []meaningSchema `json:"meanings"`
}

type meaningSchema struct {
	PartOfSpeech string   `json:"part_of_speech"`
	Definition   string   `json:"definition"`
	Translations []string `json:"translations"`
	Examples     []string `json:"examples"`
}
