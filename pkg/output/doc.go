// Package output writes the results of a run to disk.
//
// Discord servers go to a JSON file (discord_data.json by default),
// Instagram profiles to a CSV file (instagram_data.csv by default) whose
// recent_posts column carries the post list as JSON. Files are written to a
// temporary name and renamed, so an interrupted run never leaves a
// truncated result behind.
//
//	w, err := output.NewWriter(cfg.Output.Directory)
//	if err != nil {
//		return err
//	}
//	path, err := w.WriteDiscord(cfg.Discord.OutputFile, report.Discord)
package output
