// Package config loads the settings of a harvest run.
//
// Sources are layered, later ones winning:
//
//	defaults < config file < .env < environment < command line flags
//
// The config file is YAML and is looked up in .socialharvest.yaml,
// ~/.config/socialharvest/config.yaml and ~/.socialharvest.yaml when no
// explicit path is given. A minimal file:
//
//	discord:
//	  server_urls:
//	    - https://discord.com/channels/1234/5678
//	instagram:
//	  profiles: [dualipa]
//	harvest:
//	  members:
//	    stall_threshold: 5
//	    settle_delay: 2s
//
// Credentials are usually supplied through DISCORD_EMAIL, DISCORD_PASSWORD,
// INSTAGRAM_USERNAME and INSTAGRAM_PASSWORD, or stored with
// `socialharvest auth login`.
package config
