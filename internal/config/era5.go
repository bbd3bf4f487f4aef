package config

import (
	"slices"

	"go.uber.org/zap"
)

var (
	requiredSingleLevelVariables = []string{
		"surface_solar_radiation_downwards",
		"surface_thermal_radiation_downwards",
		"toa_incident_solar_radiation",
		"total_precipitation",
		"10m_u_component_of_wind",
		"10m_v_component_of_wind",
		"surface_pressure",
		"2m_dewpoint_temperature",
		"2m_temperature",
	}

	requiredPressureLevelVariables = []string{
		"geopotential",
		"specific_humidity",
		"temperature",
		"u_component_of_wind",
		"v_component_of_wind",
	}

	requiredPressureLevels = []string{"700", "750", "800", "850", "900", "950", "1000"}
)

// RequiredSingleLevelVariables returns a copy of the single-level variables every request must include.
func RequiredSingleLevelVariables() []string {
	return slices.Clone(requiredSingleLevelVariables)
}

// RequiredPressureLevelVariables returns a copy of the pressure-level variables every request must include.
func RequiredPressureLevelVariables() []string {
	return slices.Clone(requiredPressureLevelVariables)
}

// RequiredPressureLevels returns a copy of the pressure levels (hPa) every request must include.
func RequiredPressureLevels() []string {
	return slices.Clone(requiredPressureLevels)
}

// CheckERA5Variables verifies the request includes the compulsory ERA5
// variables and levels. Single-level variables are checked first.
func CheckERA5Variables(era5 *ERA5, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	logger.Debug("checking for compulsory ERA5 single-level variables")
	if err := checkMissing(era5.SingleLevels.Variable, requiredSingleLevelVariables, "era5.single_levels.variable"); err != nil {
		return err
	}

	logger.Debug("checking for compulsory ERA5 pressure-level variables")
	if err := checkMissing(era5.PressureLevels.Variable, requiredPressureLevelVariables, "era5.pressure_levels.variable"); err != nil {
		return err
	}
	return checkMissing(era5.PressureLevels.PressureLevel, requiredPressureLevels, "era5.pressure_levels.pressure_level")
}

func checkMissing(provided StringSet, required []string, field string) error {
	if missing := provided.Missing(required); len(missing) > 0 {
		return &MissingKeysError{Field: field, Missing: missing}
	}
	return nil
}
