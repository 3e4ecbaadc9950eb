// Package catalog loads endpoint catalogs produced by documentation analysis,
// fetches new ones from the analysis backend and resolves endpoint selectors.
//
// A catalog file is either a full analysis result
//
//	{"endpoints": [...], "auth_methods": [...], "suggested_integration": "..."}
//
// or a bare array of endpoints. JSON files may contain comments and trailing
// commas; .yaml and .yml files are decoded as YAML. Parameter order is kept.
package catalog
