/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"

	"github.com/statfem/densinit"
	"github.com/statfem/densinit/InputParameters"
	"github.com/statfem/densinit/diffuse"
	"github.com/statfem/densinit/locate"
	"github.com/statfem/densinit/mesh"
	"github.com/statfem/densinit/utils"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the density initialization from a YAML parameter file",
	Long: `
Reads the run parameters (mode, smoothing candidates, search strategy, mesh
and point files) from YAML, runs the initialization and writes one CSV
column of nodal coefficients per field to stdout or to -o.

densinit run -f parameters.yaml -o field.csv`,
	Run: func(cmd *cobra.Command, args []string) {
		paramFile, _ := cmd.Flags().GetString("file")
		outFile, _ := cmd.Flags().GetString("output")
		prof, _ := cmd.Flags().GetBool("profile")
		if prof {
			defer profile.Start().Stop()
		}
		if err := runInit(paramFile, outFile); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringP("file", "f", "parameters.yaml", "YAML parameter file")
	runCmd.Flags().StringP("output", "o", "", "output CSV file (default stdout)")
	runCmd.Flags().Bool("profile", false, "write a CPU profile of the run")
}

func runInit(paramFile, outFile string) (err error) {
	var (
		dp   InputParameters.DensityParameters
		data []byte
	)
	if data, err = os.ReadFile(paramFile); err != nil {
		return
	}
	if err = dp.Parse(data); err != nil {
		return
	}
	dp.Print()

	points, err := readCSVMatrix(dp.PointsFile)
	if err != nil {
		return
	}
	m, err := buildMesh(&dp, points)
	if err != nil {
		return
	}
	fmt.Printf("[%s]\t\t\t= Mesh kind (%d nodes, %d elements)\n",
		m.Kind, m.NumNodes(), m.NumElements())

	mode, err := densinit.ParseMode(dp.Mode)
	if err != nil {
		return
	}
	strategy, err := locate.ParseStrategy(dp.SearchStrategy)
	if err != nil {
		return
	}
	fields, err := densinit.Initialize(context.Background(), m, points, densinit.Config{
		Lambda:   dp.Lambda,
		HeatStep: dp.HeatStep,
		HeatIter: dp.HeatIter,
		Mode:     mode,
		NFolds:   dp.NFolds,
		Search:   strategy,
	})
	if err != nil {
		return
	}
	for _, f := range fields {
		fmt.Printf("lambda %g: %d points outside the mesh\n", f.Lambda, f.Skipped)
	}
	return writeFields(outFile, fields)
}

// buildMesh loads the node/element files, or falls back to a Delaunay
// triangulation of the observation points when no mesh files are given.
func buildMesh(dp *InputParameters.DensityParameters, points *mat.Dense) (m *mesh.Mesh, err error) {
	if dp.NodesFile == "" {
		var (
			n, _ = points.Dims()
			x    = make([]float64, n)
			y    = make([]float64, n)
		)
		for i := 0; i < n; i++ {
			x[i] = points.At(i, 0)
			y[i] = points.At(i, 1)
		}
		return mesh.DelaunayPlanar(x, y)
	}
	kind, err := mesh.KindFromDims(dp.AmbientDim, dp.IntrinsicDim)
	if err != nil {
		return
	}
	nodes, err := readCSVMatrix(dp.NodesFile)
	if err != nil {
		return
	}
	elements, err := readCSVIndex(dp.ElementsFile)
	if err != nil {
		return
	}
	return mesh.New(kind, nodes, elements)
}

func readCSVMatrix(name string) (m *mat.Dense, err error) {
	rows, err := readCSV(name)
	if err != nil {
		return
	}
	if len(rows) == 0 {
		err = fmt.Errorf("%s: empty file", name)
		return
	}
	m = mat.NewDense(len(rows), len(rows[0]), nil)
	for i, row := range rows {
		for j, cell := range row {
			var v float64
			if v, err = strconv.ParseFloat(cell, 64); err != nil {
				err = fmt.Errorf("%s row %d: %w", name, i+1, err)
				return
			}
			m.Set(i, j, v)
		}
	}
	return
}

func readCSVIndex(name string) (I utils.Index, err error) {
	rows, err := readCSV(name)
	if err != nil {
		return
	}
	for i, row := range rows {
		for _, cell := range row {
			var v int
			if v, err = strconv.Atoi(cell); err != nil {
				err = fmt.Errorf("%s row %d: %w", name, i+1, err)
				return
			}
			I = append(I, v)
		}
	}
	return
}

func readCSV(name string) (rows [][]string, err error) {
	fd, err := os.Open(name)
	if err != nil {
		return
	}
	defer fd.Close()
	return csv.NewReader(fd).ReadAll()
}

// writeFields emits one CSV row per mesh node, one column per field, in the
// order the smoothing candidates were supplied.
func writeFields(outFile string, fields []diffuse.Field) (err error) {
	var (
		out = os.Stdout
	)
	if outFile != "" {
		if out, err = os.Create(outFile); err != nil {
			return
		}
		defer out.Close()
	}
	w := csv.NewWriter(out)
	defer w.Flush()
	header := make([]string, len(fields))
	for j, f := range fields {
		header[j] = fmt.Sprintf("lambda=%g", f.Lambda)
	}
	if err = w.Write(header); err != nil {
		return
	}
	nNodes := fields[0].Values.Len()
	row := make([]string, len(fields))
	for i := 0; i < nNodes; i++ {
		for j, f := range fields {
			row[j] = strconv.FormatFloat(f.Values.AtVec(i), 'g', -1, 64)
		}
		if err = w.Write(row); err != nil {
			return
		}
	}
	return
}
