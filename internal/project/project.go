package project

// Project represents a validated deployable project
type Project struct {
	Name        string
	Description string
}

// ProjectConfig represents the YAML configuration for a project
type ProjectConfig struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

// DeployConfig describes how the deployment executable is invoked
type DeployConfig struct {
	Command   string `yaml:"command"`
	Dir       string `yaml:"dir"`
	Timeout   int    `yaml:"timeout"`
	Serialize bool   `yaml:"serialize"`
}

// Config represents the root configuration structure
type Config struct {
	Deploy   DeployConfig        `yaml:"deploy"`
	Trusted  map[string][]string `yaml:"trusted"`
	Projects []ProjectConfig     `yaml:"projects"`
}
