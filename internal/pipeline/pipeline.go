// Package pipeline wires area resolution, the three source fetchers, the
// joiner, and the analyzer into a single analysis run.
package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/adanWu2005/City-Data-Analysis-Dashboard/internal/analyze"
	"github.com/adanWu2005/City-Data-Analysis-Dashboard/internal/area"
	"github.com/adanWu2005/City-Data-Analysis-Dashboard/internal/join"
	"github.com/adanWu2005/City-Data-Analysis-Dashboard/internal/model"
	"github.com/adanWu2005/City-Data-Analysis-Dashboard/internal/source"
)

// Pipeline runs the full analysis for a set of city selections.
type Pipeline struct {
	resolver     area.Resolver
	demographics source.DemographicsSource
	employment   source.EmploymentSource
	crime        source.CrimeSource
}

// New creates a Pipeline with all dependencies.
func New(resolver area.Resolver, demo source.DemographicsSource, emp source.EmploymentSource, crime source.CrimeSource) *Pipeline {
	return &Pipeline{
		resolver:     resolver,
		demographics: demo,
		employment:   emp,
		crime:        crime,
	}
}

// Run processes every selection sequentially and returns the joined
// datasets, comparisons, correlation matrix, and collected warnings. A
// failing city is dropped with a fatal warning on the report; the other
// cities still produce results. Run itself errors only on invalid input.
func (p *Pipeline) Run(ctx context.Context, selections []model.Selection) (*model.RunResult, error) {
	if len(selections) == 0 {
		return nil, eris.New("pipeline: no cities selected")
	}
	for _, sel := range selections {
		if err := sel.Validate(); err != nil {
			return nil, eris.Wrap(err, "pipeline: invalid selection")
		}
	}

	result := &model.RunResult{
		RunID:      uuid.New().String(),
		Selections: selections,
		StartedAt:  time.Now().UTC(),
	}

	log := zap.L().With(zap.String("run_id", result.RunID))
	log.Info("pipeline: starting analysis", zap.Int("cities", len(selections)))

	for _, sel := range selections {
		dataset, warnings, err := p.processCity(ctx, sel)
		if err != nil {
			w := classify(sel, err)
			log.Warn("pipeline: city dropped",
				zap.String("city", sel.Key()),
				zap.String("code", string(w.Code)),
				zap.Error(err),
			)
			result.Warnings = append(result.Warnings, w)
			continue
		}
		result.Datasets = append(result.Datasets, *dataset)
		result.Warnings = append(result.Warnings, warnings...)
	}

	if len(result.Datasets) > 0 {
		result.Comparisons = analyze.Compare(result.Datasets)
		result.Correlation = analyze.Correlation(result.Datasets)
	}

	result.Duration = time.Since(result.StartedAt)
	log.Info("pipeline: analysis complete",
		zap.Int("datasets", len(result.Datasets)),
		zap.Int("warnings", len(result.Warnings)),
		zap.Duration("duration", result.Duration),
	)

	return result, nil
}

// processCity resolves, fetches, and joins one city. Demographic and
// employment failures are fatal for the city; a crime fetch failure is
// logged and the city continues with no crime data, which the joiner
// surfaces as a PartialCrimeData warning.
func (p *Pipeline) processCity(ctx context.Context, sel model.Selection) (*model.CityDataset, []model.Warning, error) {
	a, err := p.resolver.Resolve(ctx, sel.City, sel.State)
	if err != nil {
		return nil, nil, err
	}

	years := source.YearRange{Start: sel.StartYear, End: sel.EndYear}

	var frags model.SourceFragments
	frags.Demographics, err = p.demographics.FetchDemographics(ctx, a, years)
	if err != nil {
		return nil, nil, eris.Wrapf(err, "demographics for %s", sel.Key())
	}

	frags.Employment, err = p.employment.FetchEmployment(ctx, a, years)
	if err != nil {
		return nil, nil, eris.Wrapf(err, "employment for %s", sel.Key())
	}

	frags.Crime, err = p.crime.FetchCrime(ctx, a, years)
	if err != nil {
		// Crime gaps are never fatal: drop the fragments and let the joiner
		// record the partial-crime warning.
		zap.L().Warn("crime source unavailable, continuing without crime data",
			zap.String("city", sel.Key()),
			zap.Error(err),
		)
		frags.Crime = nil
	}

	return join.City(sel, a, frags)
}

// classify maps a per-city failure onto the warning taxonomy.
func classify(sel model.Selection, err error) model.Warning {
	code := model.WarnSourceUnavailable
	switch {
	case eris.Is(err, model.ErrCityNotFound):
		code = model.WarnCityNotFound
	case eris.Is(err, model.ErrNoDataForRange):
		code = model.WarnNoDataForRange
	}
	return model.Warning{
		Code:   code,
		City:   sel.Key(),
		Detail: err.Error(),
		Fatal:  true,
	}
}
