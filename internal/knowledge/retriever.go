package knowledge

import (
	"context"

	"github.com/elecmate/maintenance-planner/internal/models"
	"github.com/sirupsen/logrus"
)

type Options struct {
	PrimaryLimit    int
	MinPrimaryDocs  int
	FallbackLimit   int
	RegulationLimit int
}

func DefaultOptions() Options {
	return Options{
		PrimaryLimit:    10,
		MinPrimaryDocs:  4,
		FallbackLimit:   6,
		RegulationLimit: 8,
	}
}

// Retriever runs the tiered lookup: primary store first, regulations on top
// for full detail, embedding search only when the primary tier is thin.
type Retriever struct {
	primary     PracticalWorkSearcher
	maintenance MaintenanceSearcher
	regulations RegulationSearcher
	embedder    Embedder
	opts        Options
	logger      *logrus.Logger
}

func NewRetriever(primary PracticalWorkSearcher, maintenance MaintenanceSearcher, regulations RegulationSearcher, embedder Embedder, opts Options, logger *logrus.Logger) *Retriever {
	return &Retriever{
		primary:     primary,
		maintenance: maintenance,
		regulations: regulations,
		embedder:    embedder,
		opts:        opts,
		logger:      logger,
	}
}

// Retrieve never returns an error. Store failures are logged and the
// affected tier contributes nothing.
func (r *Retriever) Retrieve(ctx context.Context, query, equipmentType, detailLevel string) Result {
	log := r.logger.WithField("query", query)

	primaryDocs, err := r.primary.SearchPracticalWork(ctx, query, r.opts.PrimaryLimit)
	if err != nil {
		log.WithError(err).Warn("Primary knowledge search failed")
		primaryDocs = nil
	}

	if len(primaryDocs) >= r.opts.MinPrimaryDocs {
		docs := primaryDocs
		stats := Stats{Tier: TierPrimary, PrimaryCount: len(primaryDocs)}

		if detailLevel == models.DetailFull {
			regs, err := r.regulations.SearchRegulations(ctx, query, r.opts.RegulationLimit)
			if err != nil {
				log.WithError(err).Warn("Regulations search failed")
			} else {
				docs = append(docs, regs...)
				stats.RegulatoryCount = len(regs)
			}
		}

		stats.AverageScore = averageScore(docs)
		log.WithFields(logrus.Fields{
			"primary":    stats.PrimaryCount,
			"regulatory": stats.RegulatoryCount,
		}).Info("Retrieved from primary knowledge tier")
		return Result{Documents: docs, Stats: stats}
	}

	log.WithField("primary", len(primaryDocs)).Info("Primary tier insufficient, using embedding search")
	fallbackDocs := r.searchFallback(ctx, query, equipmentType)
	if len(fallbackDocs) == 0 {
		return Result{Stats: Stats{Tier: TierNone}}
	}

	return Result{
		Documents: fallbackDocs,
		Stats: Stats{
			Tier:          TierFallback,
			FallbackCount: len(fallbackDocs),
			AverageScore:  averageScore(fallbackDocs),
		},
	}
}

func (r *Retriever) searchFallback(ctx context.Context, query, equipmentType string) []Document {
	embedding, err := r.embedder.Embed(ctx, query)
	if err != nil {
		r.logger.WithError(err).Warn("Query embedding failed")
		return nil
	}

	docs, err := r.maintenance.SearchMaintenance(ctx, query, embedding, equipmentType, r.opts.FallbackLimit)
	if err != nil {
		r.logger.WithError(err).Warn("Maintenance knowledge search failed")
		return nil
	}
	return docs
}
