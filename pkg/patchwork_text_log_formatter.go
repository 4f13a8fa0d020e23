package patchwork

import (
	"fmt"

	"github.com/mitchellh/colorstring"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type patchworkTextFormatter struct {
	colorize *colorstring.Colorize
	colors   map[logrus.Level]string
}

func newTextFormatter(v *viper.Viper, colorize bool) *patchworkTextFormatter {
	return &patchworkTextFormatter{
		colorize: &colorstring.Colorize{
			Colors:  colorstring.DefaultColors,
			Disable: !colorize,
			Reset:   true,
		},
		colors: map[logrus.Level]string{
			logrus.PanicLevel: v.GetString("log_color_panic"),
			logrus.FatalLevel: v.GetString("log_color_fatal"),
			logrus.ErrorLevel: v.GetString("log_color_error"),
			logrus.WarnLevel:  v.GetString("log_color_warn"),
			logrus.InfoLevel:  v.GetString("log_color_info"),
			logrus.DebugLevel: v.GetString("log_color_debug"),
			logrus.TraceLevel: v.GetString("log_color_trace"),
		},
	}
}

func (f *patchworkTextFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	var prefix = "[" + f.colors[entry.Level] + "]"
	pipeline := entry.Data["pipeline"]
	if pipeline != nil {
		switch pipeline := pipeline.(type) {
		case string:
			step := entry.Data["step"]
			if step != nil {
				switch step := step.(type) {
				case string:
					prefix = fmt.Sprintf("%s%s.%s ≫ ", prefix, pipeline, step)
				}
			} else {
				prefix = fmt.Sprintf("%s%s ≫ ", prefix, pipeline)
			}
		}
	}
	return []byte(f.colorize.Color(fmt.Sprintf("%s%s\n", prefix, entry.Message))), nil
}
