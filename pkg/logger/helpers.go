package logger

// LogHarvestStart logs the limits a list harvest starts with
func LogHarvestStart(l Logger, name string, maxIterations, stallThreshold, target int) {
	l.WithFields(map[string]interface{}{
		"harvest":         name,
		"max_iterations":  maxIterations,
		"stall_threshold": stallThreshold,
		"target":          target,
	}).Info("Harvest started")
}

// LogHarvestDone logs how a list harvest terminated
func LogHarvestDone(l Logger, name, reason string, iterations, records int) {
	l.WithFields(map[string]interface{}{
		"harvest":    name,
		"reason":     reason,
		"iterations": iterations,
		"records":    records,
	}).Info("Harvest finished")
}

// LogParseMismatch logs one skipped element whose text did not match the
// expected pattern
func LogParseMismatch(l Logger, kind, text string) {
	l.WithFields(map[string]interface{}{
		"kind": kind,
		"text": text,
	}).Warn("Skipping element that does not match expected pattern")
}

// LogTargetFailure logs a target that was abandoned, with the path of the
// diagnostic screenshot when one was taken
func LogTargetFailure(l Logger, platform, target, screenshot string, err error) {
	fields := map[string]interface{}{
		"platform": platform,
		"target":   target,
	}
	if screenshot != "" {
		fields["screenshot"] = screenshot
	}
	l.WithError(err).ErrorWithFields("Target failed, moving on", fields)
}

// LogComponentStart logs when a component starts
func LogComponentStart(component string, config map[string]interface{}) {
	l := GetLogger().WithField("component", component)
	if len(config) > 0 {
		l = l.WithFields(config)
	}
	l.Info("Component started")
}

// LogComponentStop logs when a component stops
func LogComponentStop(component string, reason string) {
	GetLogger().WithFields(map[string]interface{}{
		"component": component,
		"reason":    reason,
	}).Info("Component stopped")
}

// OrDefault returns l, or the global logger when l is nil
func OrDefault(l Logger) Logger {
	if l == nil {
		return GetLogger()
	}
	return l
}

// NewNopLogger creates a no-operation logger for testing
func NewNopLogger() Logger {
	return &nopLogger{}
}

type nopLogger struct{}

func (n *nopLogger) Debug(msg string)                                          {}
func (n *nopLogger) Info(msg string)                                           {}
func (n *nopLogger) Warn(msg string)                                           {}
func (n *nopLogger) Error(msg string)                                          {}
func (n *nopLogger) WithField(key string, value interface{}) Logger            { return n }
func (n *nopLogger) WithFields(fields map[string]interface{}) Logger           { return n }
func (n *nopLogger) WithError(err error) Logger                                { return n }
func (n *nopLogger) DebugWithFields(msg string, fields map[string]interface{}) {}
func (n *nopLogger) InfoWithFields(msg string, fields map[string]interface{})  {}
func (n *nopLogger) WarnWithFields(msg string, fields map[string]interface{})  {}
func (n *nopLogger) ErrorWithFields(msg string, fields map[string]interface{}) {}
