// Package discord scrapes Discord servers through a logged-in browser tab.
//
// For each server URL it reads the server name, the channel sidebar
// grouped by category, the member list groups with the members shown
// under them, the presence of every member (last_active), and the latest
// messages of the configured channel URLs.
//
// Both member list passes run the harvest loop over the virtualized
// members-<server id> list. Group headers and member rows share one
// identity space, so discovering either resets the stall counter.
package discord
