// Package pipeline runs report requests through a fixed sequence of steps.
//
// A model.Job is created per request and handed to each Step in turn:
// intake loads and resolves the request, compose builds the report and its
// artifact, write stores the artifact and manifest records a sidecar
// describing it. A failing step records its error on the job.
//
// BatchProcessor runs one pipeline per request file with bounded
// concurrency using errgroup. Each job owns its request and builder state;
// only the ordered results slice is shared.
package pipeline
