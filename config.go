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

package atmo

import (
	"fmt"
	"os"

	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Cfg wraps a viper instance with the root cobra command, following
// inmaputil's Cfg pattern: every flag can also be set as an ST_<NAME>
// environment variable (§6). No config file is read.
type Cfg struct {
	*viper.Viper
	Root *cobra.Command
	Log  *logrus.Logger
}

// Run is supplied by the caller (typically cmd/st_atmospheric_parameters)
// and executes the pipeline once configuration has been resolved.
type Run func(cfg *Cfg) error

// NewCfg builds the root command. run is invoked by RunE once flags and
// environment variables are merged (§6 CLI contract).
func NewCfg(run Run) *Cfg {
	cfg := &Cfg{Viper: viper.New(), Log: logrus.New()}

	cfg.Root = &cobra.Command{
		Use:   "st_atmospheric_parameters",
		Short: "Compute per-pixel atmospheric transmittance, upwelled and downwelled radiance.",
		Long: `st_atmospheric_parameters fuses MODTRAN radiative-transfer output with
per-pixel geolocation and elevation to produce four aligned raster bands
(thermal radiance, transmittance, upwelled radiance, downwelled radiance)
registered to a Landsat thermal scene's reference band.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.GetBool("debug") {
				cfg.Log.SetLevel(logrus.DebugLevel)
			}
			return run(cfg)
		},
	}

	cfg.Root.PersistentFlags().String("xml", "", "path to the scene XML metadata file")
	cfg.Root.PersistentFlags().Bool("debug", false, "enable debug-level logging")
	if err := cfg.BindPFlags(cfg.Root.PersistentFlags()); err != nil {
		panic("atmo: binding flags: " + err.Error())
	}

	cfg.SetEnvPrefix("ST")
	cfg.AutomaticEnv()

	return cfg
}

// DataDir returns ST_DATA_DIR, the directory holding the per-sensor
// spectral response files (§6). It is read directly from the environment
// rather than through viper's binding, since it has no corresponding flag.
func DataDir() (string, error) {
	dir := os.Getenv("ST_DATA_DIR")
	if dir == "" {
		return "", newErr(KindConfigMissing, "DataDir", fmt.Errorf("ST_DATA_DIR is not set"))
	}
	return dir, nil
}

// XMLPath returns the --xml flag value, failing if it was not supplied.
func (c *Cfg) XMLPath() (string, error) {
	path := c.GetString("xml")
	if path == "" {
		return "", newErr(KindConfigMissing, "XMLPath", fmt.Errorf("--xml is required"))
	}
	return path, nil
}
