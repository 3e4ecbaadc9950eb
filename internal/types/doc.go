/*
Package types defines the data shared by the playground, the executor and the
collection exporter.

# Catalog Types

AnalysisResult is the document produced by the analysis backend. Only its
Endpoints are consumed here; auth methods, integration notes, wrapper code and
the env template are carried through for display.

Endpoint:
  - Method, Path and Description as discovered
  - Parameters, an ordered name -> ParameterSpec mapping
  - Path may or may not start with "/"

ParameterSpec is descriptive only. Required parameters are shown to the user
but never enforced.

# Request Types

HeaderRow:
  - One user-entered header line
  - Duplicate names are allowed, empty names are dropped when folded

RequestDescriptor:
  - Built fresh for every submission
  - Params is a flat mapping; placement (query, path or body) is left to the transport

# Response Types

ResponseEnvelope:
  - Status code, flattened headers, elapsed milliseconds
  - Response is raw JSON when the body parsed, text otherwise
  - Non-2xx statuses are ordinary envelopes, not errors
*/
package types
