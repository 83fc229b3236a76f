package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/rheumaview/rheumaview/internal/form"
	"github.com/rheumaview/rheumaview/internal/model"
	"github.com/rheumaview/rheumaview/internal/phrasing"
	"github.com/spf13/cobra"
)

// errNotConfirmed is returned when the practitioner does not confirm that
// the data is ready.
var errNotConfirmed = errors.New("report generation was not confirmed")

// formStage is one screen of the request form. Its fields may depend on
// the answers of earlier stages.
type formStage struct {
	title  string
	fields func(v *form.Values) []form.Field
}

// requestStages returns the request form screens in order: request,
// findings, structured peripheral templates, prior studies and the final
// confirmation.
func requestStages(lib *phrasing.Library) []formStage {
	return []formStage{
		{
			title:  "Report Request",
			fields: func(*form.Values) []form.Field { return form.Schema() },
		},
		{
			title: "Findings",
			fields: func(v *form.Values) []form.Field {
				return form.FindingFields(selectedRegions(v), lib)
			},
		},
		{
			title: "Structured Peripheral Joint Template",
			fields: func(v *form.Values) []form.Field {
				var fields []form.Field
				for i, region := range selectedRegions(v) {
					if v.Bools[form.FindingKey(i, "structured")] {
						fields = append(fields, form.PeripheralFields(i, region, lib.Peripheral)...)
					}
				}
				return fields
			},
		},
		{
			title: "Prior Studies",
			fields: func(v *form.Values) []form.Field {
				n, _ := strconv.Atoi(v.Strings[form.KeyPriorCount])
				return form.PriorFields(n)
			},
		},
		{
			title:  "Confirmation",
			fields: func(*form.Values) []form.Field { return form.ConfirmFields() },
		},
	}
}

// selectedRegions returns the regions chosen in the first stage, or none in
// free-form mode.
func selectedRegions(v *form.Values) []string {
	if v.Bools[form.KeyStudyFreeForm] {
		return nil
	}
	return v.Lists[form.KeyStudyRegions]
}

// collectRequest walks the practitioner through the request form on the
// command's terminal streams and binds the answers into a request.
func collectRequest(ctx context.Context, cmd *cobra.Command, accessible bool) (*model.Request, error) {
	lib, err := phrasing.Default()
	if err != nil {
		return nil, fmt.Errorf("failed to load phrasing library: %w", err)
	}

	v := form.NewValues()
	for _, stage := range requestStages(lib) {
		err := form.Render(ctx, stage.fields(v), v,
			form.WithTitle(stage.title),
			form.WithAccessible(accessible),
			form.WithIO(cmd.InOrStdin(), cmd.ErrOrStderr()),
		)
		if err != nil {
			return nil, err
		}
	}

	if !v.Bools[form.KeyReady] {
		return nil, errNotConfirmed
	}

	return form.Bind(v)
}
