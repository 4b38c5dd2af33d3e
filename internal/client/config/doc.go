// Package config loads runtime configuration for the chatdesk CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Environment: CHATDESK_API_URL and CHATDESK_DOCUMENTS_URL, read from the
//     process environment or from a dotenv file (-e/-env, default ./.env).
//  3. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   API base URL
//	-d string   documents API base URL
//	-s string   session state file
//	-l string   log file
//	-i int      online status check interval (seconds)
//	-t int      request timeout (seconds)
//
// # JSON schema
//
// The JSON loader uses timex.Duration for intervals, so values can be either
// strings like "3s" or integer nanoseconds:
//
//	{
//	  "api_url": "http://127.0.0.1:8000",
//	  "documents_url": "http://127.0.0.1:8001",
//	  "state_path": "/home/me/.config/chatdesk/state.db",
//	  "log_file": "/tmp/chatdesk.log",
//	  "online_check_interval": "3s",
//	  "request_timeout": "1m"
//	}
package config
