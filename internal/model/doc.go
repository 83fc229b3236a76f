// Package model defines the data structures shared by every stage of report
// composition.
//
// This package contains the following main types:
//   - PatientInfo, StudyInfo, PriorStudy, Finding: the practitioner's input
//   - ReportOptions: header, footer, EMR summary and export format
//   - Request: the request-scoped bundle of all of the above
//   - ComposedReport: ordered sections plus the serialized Artifact
//   - Job: one request flowing through the pipeline package
//
// The controlled vocabularies (regions, sexes, image extensions) live here as
// read-only package-level values so that the form, the builder and the CLI
// agree on them.
package model
