// Package config loads a CryoGrid data request from YAML. A request is
// validated against the schema, enriched with its absolute file name and a
// bounding-box label, has its {placeholders} resolved, and is then decoded
// into a typed Request whose ERA5 variable lists and S3 paths are checked
// before credentials are discovered.
package config
