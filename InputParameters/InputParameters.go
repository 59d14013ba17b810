package InputParameters

import (
	"fmt"

	"github.com/ghodss/yaml"
)

// Parameters obtained from the YAML input file
type DensityParameters struct {
	Title          string    `yaml:"Title"`
	Mode           string    `yaml:"Mode"`           // "Heat" or "CV"
	Lambda         []float64 `yaml:"Lambda"`         // smoothing candidates
	HeatStep       float64   `yaml:"HeatStep"`       // diffusion time increment
	HeatIter       int       `yaml:"HeatIter"`       // diffusion iteration count
	NFolds         int       `yaml:"NFolds"`         // CV folds
	SearchStrategy string    `yaml:"SearchStrategy"` // "naive", "tree" or "walking"
	PointsFile     string    `yaml:"PointsFile"`     // CSV of observation coordinates
	NodesFile      string    `yaml:"NodesFile"`      // CSV of mesh node coordinates
	ElementsFile   string    `yaml:"ElementsFile"`   // CSV of element node indices
	AmbientDim     int       `yaml:"AmbientDim"`
	IntrinsicDim   int       `yaml:"IntrinsicDim"`
}

func (dp *DensityParameters) Parse(data []byte) error {
	if err := yaml.Unmarshal(data, dp); err != nil {
		return err
	}
	if dp.Mode == "" {
		dp.Mode = "Heat"
	}
	if dp.SearchStrategy == "" {
		dp.SearchStrategy = "tree"
	}
	return nil
}

func (dp *DensityParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", dp.Title)
	fmt.Printf("[%s]\t\t\t= Mode\n", dp.Mode)
	fmt.Printf("%v\t\t= Lambda\n", dp.Lambda)
	fmt.Printf("%8.5f\t\t= HeatStep\n", dp.HeatStep)
	fmt.Printf("[%d]\t\t\t= HeatIter\n", dp.HeatIter)
	fmt.Printf("[%d]\t\t\t= NFolds\n", dp.NFolds)
	fmt.Printf("[%s]\t\t\t= SearchStrategy\n", dp.SearchStrategy)
	fmt.Printf("\"%s\"\t= PointsFile\n", dp.PointsFile)
	fmt.Printf("\"%s\"\t= NodesFile\n", dp.NodesFile)
	fmt.Printf("\"%s\"\t= ElementsFile\n", dp.ElementsFile)
}
