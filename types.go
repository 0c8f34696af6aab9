package baseline

type Configuration struct {
	MaxTime    string   `yaml:"maxTime"`
	Timeout    string   `yaml:"timeout"`
	Threshold  *float64 `yaml:"threshold,omitempty"`
	Confidence float64  `yaml:"confidence"`
	Reporter   string   `yaml:"reporter"`
	Baseline   string   `yaml:"baseline"`
	Update     *bool    `yaml:"update,omitempty"`
	Colors     *bool    `yaml:"colors,omitempty"`
}
