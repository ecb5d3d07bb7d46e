// Package config loads runtime configuration for the sharesaver CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (--config), read through an afero.Fs.
//  3. Optional dotenv file (--env-file, default ".env"); a missing file is ignored.
//  4. Process environment, which wins over the dotenv file.
//
// # Environment
//
//	SERVER_URL          management server base URL
//	USERNAME, PASSWORD  server credentials
//	TARGET_FOLDER_ID    fallback target folder (default -11, the drive root)
//	TARGET_SENDER       when set, `handle` only accepts triggers from this sender
//	ANCHOR_FOLDER_NAME  top-level folder searched first (default 我的转存)
//	DB_PATH             local SQLite store (default data/messages.db)
//	LOG_LEVEL, LOG_FILE logging level and optional persistent log file
//	METRICS_TEXTFILE    Prometheus textfile written after each command
//
// # JSON schema
//
// Durations are strings like "10s" or integer nanoseconds:
//
//	{
//	  "request_timeout": "10s",
//	  "max_retries": 3,
//	  "retry_delay": "5s",
//	  "max_wait_attempts": 10,
//	  "wait_interval": "10s",
//	  "folder_search_depth": 10,
//	  "user_agent": "Mozilla/5.0 ..."
//	}
package config
