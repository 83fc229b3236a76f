// Package intake reads report requests and prepares them for composition.
//
// Load decodes a YAML or JSON request file. Resolver then fills in what the
// practitioner may leave implicit: image filenames from their paths, finding
// text from phrase references and the structured peripheral template,
// regions proposed by a RegionDetector, and the study date read from image
// metadata. Resolution only adds information; the builder still validates
// the result.
package intake
