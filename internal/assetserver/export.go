package assetserver

// ExportOptions is the JSON document served on ExportPath. The page reads it
// at runtime so the bundle does not need to be rebuilt per render.
type ExportOptions struct {
	Background   bool `json:"exportBackground"`
	EmbedScene   bool `json:"exportEmbedScene"`
	WithDarkMode bool `json:"exportWithDarkMode"`
	Scale        int  `json:"exportScale"`
}
