// RentPredict - Rent Estimation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rentpredict

/*
Package config loads the server configuration.

Sources are layered with Koanf v2, later layers winning:

 1. Built-in defaults (defaultConfig)
 2. An optional YAML file: $CONFIG_PATH, config.yaml, config.yml or
    /etc/rentpredict/config.yaml, the first that exists
 3. Environment variables, through an explicit name mapping

A .env file in the working directory is read into the environment first
when present. Variables already set in the environment are not replaced.

Environment variables:

	HTTP_HOST, HTTP_PORT, SERVER_TIMEOUT, ENVIRONMENT
	LOG_LEVEL, LOG_FORMAT, LOG_CALLER
	ARTIFACTS_DIR, PIPELINE_NAME, PIPELINE_VERSION, PRIORS_NAME,
	PRIORS_VERSION, SCHEMA_FILE, METADATA_FILE
	MODEL_VERSION, MODEL_SERIALIZE_INFERENCE
	FEEDBACK_ENABLED, FEEDBACK_PATH, FEEDBACK_IN_MEMORY, FEEDBACK_GC_INTERVAL
	CORS_ORIGINS (comma separated), RATE_LIMIT_REQUESTS, RATE_LIMIT_WINDOW,
	DISABLE_RATE_LIMIT

Example config.yaml:

	server:
	  port: 8000
	artifacts:
	  dir: /srv/rentpredict/artifacts
	feedback:
	  enabled: true
	  path: /srv/rentpredict/feedback
*/
package config
