package server

import (
	"context"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/rs/zerolog/log"

	"github.com/lloydmeta/timestamping/internal/infra/elasticsearch/common"
	"github.com/lloydmeta/timestamping/internal/infra/elasticsearch/index"
)

// Setup abstracts away:
//
// 1. Setting up Elasticsearch for archiving committed records
// 2. Checking that things are set up
type Setup interface {

	// Check returns an error if all the necessary setup is not complete
	Check(ctx context.Context) error

	// RunIfNeeded attempts to run the subroutines necessary, no more no less
	RunIfNeeded(ctx context.Context) error
}

type setupImpl struct {
	templateSetup index.TemplatesSetup
}

// NewSetup returns a Setup implementation
func NewSetup(esClient *elasticsearch.Client, archiveIndex common.IndexName) Setup {
	return &setupImpl{
		templateSetup: index.DefaultTemplateSetup(esClient, archiveIndex),
	}
}

func (i *setupImpl) Check(ctx context.Context) error {
	return i.templateSetup.Check(ctx)
}

func (i *setupImpl) RunIfNeeded(ctx context.Context) error {
	if err := i.templateSetup.Check(ctx); err != nil {
		if _, templateNotFound := err.(index.TemplatesNotInstalled); templateNotFound {
			log.Info().Msg("Setting up Index templates")
			if err := i.templateSetup.Run(ctx); err != nil {
				log.Error().Err(err).Msg("Failed to install index templates")
				return err
			}
		} else {
			return err
		}
	}
	log.Info().Msg("Setup complete")
	return nil
}
