// Package config loads tablesync.json.
//
// # Configuration File Structure
//
//	{
//	  "server": {
//	    "addr": ":8080",
//	    "readBufferSize": 1024,
//	    "writeBufferSize": 1024,
//	    "allowedOrigins": ["https://admin.example.com"]
//	  },
//	  "table": {
//	    "multiSort": true,
//	    "history": "push",
//	    "sortParam": "sort",
//	    "searchParam": "q",
//	    "tabindex": 0
//	  },
//	  "log": {"level": "info", "format": "json"},
//	  "metrics": {"enabled": true, "namespace": "tablesync"},
//	  "tracing": {"enabled": false, "tracerName": "tablesync"}
//	}
//
// Missing fields keep the values from New. TABLESYNC_ADDR overrides
// server.addr.
//
// # Usage
//
//	cfg, err := config.LoadOrDefault(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
package config
