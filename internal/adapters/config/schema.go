package config

// File represents the structure of the bowersync.yaml configuration file.
type File struct {
	Name          string  `yaml:"name"`
	Manifest      string  `yaml:"manifest"`
	RangeOperator *string `yaml:"rangeOperator"`
	ComponentsDir string  `yaml:"componentsDir"`
	Debounce      string  `yaml:"debounce"`
	Listen        string  `yaml:"listen"`
}

// Bowerrc represents the fields of the package manager's .bowerrc that are read.
type Bowerrc struct {
	Directory string `json:"directory"`
}
