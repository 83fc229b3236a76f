package config

// Keys of the settings a profile can carry. The command line uses the same
// names for its flags, so an explicitly set flag always beats the profile.
const (
	KeyFormat                 = "format"
	KeyOutputDir              = "output-dir"
	KeyTitle                  = "title"
	KeyHeader                 = "header"
	KeyFooter                 = "footer"
	KeyPageSize               = "page-size"
	KeyFontSize               = "font-size"
	KeyFilenamePrefix         = "filename-prefix"
	KeyIncludeClinicalContext = "include-clinical-context"
	KeyManifest               = "manifest"
	KeyDetectRegions          = "detect-regions"
	KeyInferDate              = "infer-date"
)

// Profile holds the settings of one named profile, typically a reading room
// or an institution with its own letterhead.
type Profile struct {
	// Format is the default export format.
	Format string `yaml:"format,omitempty"`

	// OutputDir is where artifacts are written.
	OutputDir string `yaml:"outputDir,omitempty"`

	// Title, Header and Footer fill the request options left empty.
	Title  string `yaml:"title,omitempty"`
	Header string `yaml:"header,omitempty"`
	Footer string `yaml:"footer,omitempty"`

	// PageSize is "A4" or "Letter".
	PageSize string `yaml:"pageSize,omitempty"`

	// FontSize is the PDF body font size in points. Zero keeps the default.
	FontSize float64 `yaml:"fontSize,omitempty"`

	// FilenamePrefix starts every artifact filename.
	FilenamePrefix string `yaml:"filenamePrefix,omitempty"`

	// The switches below are pointers so that a profile can turn a
	// default-on setting off.
	IncludeClinicalContext *bool `yaml:"includeClinicalContext,omitempty"`
	Manifest               *bool `yaml:"manifest,omitempty"`
	DetectRegions          *bool `yaml:"detectRegions,omitempty"`
	InferDate              *bool `yaml:"inferDate,omitempty"`
}

// File represents the structure of the .rheumaview configuration file.
type File struct {
	// Defaults apply to every invocation unless overridden by a profile.
	Defaults Profile `yaml:"defaults,omitempty"`

	// Profiles maps profile names to their settings.
	Profiles map[string]Profile `yaml:"profiles,omitempty"`
}

// HasProfile reports whether the file defines the named profile.
func (cf *File) HasProfile(name string) bool {
	_, ok := cf.Profiles[name]
	return ok
}

// GetProfile returns the named profile merged over the defaults. An empty
// or unknown name returns the defaults.
func (cf *File) GetProfile(name string) Profile {
	result := cf.Defaults

	p, ok := cf.Profiles[name]
	if !ok {
		return result
	}

	overrideString(&result.Format, p.Format)
	overrideString(&result.OutputDir, p.OutputDir)
	overrideString(&result.Title, p.Title)
	overrideString(&result.Header, p.Header)
	overrideString(&result.Footer, p.Footer)
	overrideString(&result.PageSize, p.PageSize)
	overrideString(&result.FilenamePrefix, p.FilenamePrefix)
	if p.FontSize != 0 {
		result.FontSize = p.FontSize
	}
	overrideBool(&result.IncludeClinicalContext, p.IncludeClinicalContext)
	overrideBool(&result.Manifest, p.Manifest)
	overrideBool(&result.DetectRegions, p.DetectRegions)
	overrideBool(&result.InferDate, p.InferDate)

	return result
}

func overrideString(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}

func overrideBool(dst **bool, value *bool) {
	if value != nil {
		*dst = value
	}
}

// ApplyProfile copies the profile's settings into c. Settings for which
// explicit returns true were set on the command line and are kept.
// A nil explicit applies every setting the profile carries.
func (c *Config) ApplyProfile(p Profile, explicit func(key string) bool) {
	if explicit == nil {
		explicit = func(string) bool { return false }
	}

	setString := func(key string, dst *string, value string) {
		if value != "" && !explicit(key) {
			*dst = value
		}
	}
	setBool := func(key string, dst *bool, value *bool) {
		if value != nil && !explicit(key) {
			*dst = *value
		}
	}

	setString(KeyFormat, &c.Format, p.Format)
	setString(KeyOutputDir, &c.OutputDir, p.OutputDir)
	setString(KeyTitle, &c.Title, p.Title)
	setString(KeyHeader, &c.Header, p.Header)
	setString(KeyFooter, &c.Footer, p.Footer)
	setString(KeyPageSize, &c.PageSize, p.PageSize)
	setString(KeyFilenamePrefix, &c.FilenamePrefix, p.FilenamePrefix)
	if p.FontSize != 0 && !explicit(KeyFontSize) {
		c.FontSize = p.FontSize
	}
	setBool(KeyIncludeClinicalContext, &c.IncludeClinicalContext, p.IncludeClinicalContext)
	setBool(KeyManifest, &c.Manifest, p.Manifest)
	setBool(KeyDetectRegions, &c.DetectRegions, p.DetectRegions)
	setBool(KeyInferDate, &c.InferDate, p.InferDate)
}
