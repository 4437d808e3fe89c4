/*
Copyright © 2024 the ESPA Atmospheric Parameters authors.
This file is part of espa-atmospheric-parameters.

espa-atmospheric-parameters is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

espa-atmospheric-parameters is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with espa-atmospheric-parameters.  If not, see <http://www.gnu.org/licenses/>.
*/

// Command st_atmospheric_parameters computes per-pixel atmospheric
// transmittance, upwelled and downwelled radiance for a Landsat thermal
// scene from MODTRAN radiative-transfer output.
package main

import (
	"fmt"
	"os"

	atmo "github.com/usgs-eros/espa-atmospheric-parameters"
)

func main() {
	cfg := atmo.NewCfg(runPipeline)
	if err := cfg.Root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// runPipeline wires together the grid store, MODTRAN-point store, reducer
// and interpolator into a single scene run (§4, §6). The scene's XML
// metadata and thermal band are read by the geolocation/XML collaborators,
// which are out of scope for the core engine (§1 Non-goals) and are
// represented here only through the interfaces the core consumes.
func runPipeline(cfg *atmo.Cfg) error {
	xmlPath, err := cfg.XMLPath()
	if err != nil {
		return err
	}
	cfg.Log.WithField("xml", xmlPath).Info("starting atmospheric parameters run")

	dataDir, err := atmo.DataDir()
	if err != nil {
		return err
	}

	reg, err := atmo.ReadSceneRegistration(xmlPath)
	if err != nil {
		return err
	}

	response, err := atmo.LoadSpectralResponse(dataDir, reg.Sensor)
	if err != nil {
		return err
	}

	grid, err := atmo.LoadStore(".")
	if err != nil {
		return err
	}

	elevations, err := atmo.ReadModtranElevations("modtran_elevations.txt")
	if err != nil {
		return err
	}

	modtranStore := atmo.NewMODTRANStore(grid, elevations)
	if err := modtranStore.ApplyGridElevations("grid_elevations.txt"); err != nil {
		return err
	}

	scene := &atmo.Scene{
		Grid:       grid,
		MODTRAN:    modtranStore,
		Response:   response,
		Geo:        reg,
		ModtranDir: ".",
		OutDir:     ".",
		Log:        cfg.Log,
	}

	if err := scene.Reduce(); err != nil {
		return err
	}

	if err := atmo.WriteAtmosphericParameters("atmospheric_parameters.txt", modtranStore); err != nil {
		return err
	}
	if err := atmo.WriteUsedPoints("used_points.txt", modtranStore); err != nil {
		return err
	}

	band, err := reg.ThermalBand()
	if err != nil {
		return err
	}

	writer, err := atmo.NewRasterWriter(scene.OutDir, band.Lines, band.Samples)
	if err != nil {
		return err
	}
	if err := scene.Interpolate(band, writer); err != nil {
		writer.Close()
		return err
	}
	if err := writer.Close(); err != nil {
		return err
	}

	cfg.Log.Info("atmospheric parameters run complete")
	return nil
}
