// Package compose turns one report request into a finished document.
//
// The Builder runs a single linear transformation:
//
//  1. validate the request and name the first offending field
//  2. derive the patient age from the date of birth, falling back to the
//     entered age or "unknown"
//  3. assemble the sections in their fixed document order
//  4. encode the sections with the report package and name the artifact
//
// Composition is all-or-nothing. Every failure is returned as one of the
// error kinds defined in the model package and no partial report escapes.
// A Builder holds only configuration, so one value may be shared by
// concurrent callers.
package compose
