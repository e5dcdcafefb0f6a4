package importer

import (
	"io"

	"github.com/sversluys/walleto/internal/importer/bankcsv"
	"github.com/sversluys/walleto/internal/movement"
)

type Service struct {
	csv Parser
}

func NewService() *Service {
	return &Service{
		csv: bankcsv.New(),
	}
}

// Parse reads a statement and returns planned-movement params. The CSV
// parser auto-detects the column profile, so there is no format argument.
func (s *Service) Parse(r io.Reader) ([]movement.Params, error) {
	return s.csv.Parse(r)
}
