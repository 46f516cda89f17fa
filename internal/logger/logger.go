package logger

import "go.uber.org/zap"

var Log = zap.NewNop()

// Init replaces the no-op default. Dev mode uses the console encoder.
func Init(dev bool) error {
	var (
		l   *zap.Logger
		err error
	)
	if dev {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		return err
	}

	Log = l
	return nil
}
