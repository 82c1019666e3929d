package snprobe

import (
	"fmt"
	"os"
	"time"

	"github.com/consol-monitoring/snprobe/pkg/snmpconn"
	"github.com/consol-monitoring/snprobe/pkg/utils"
	"gopkg.in/yaml.v3"
)

// DeviceProfile is a named set of connection parameters from the config
// file. Profiles keep credentials out of the monitoring server's command
// definitions, command line flags still override individual fields.
type DeviceProfile struct {
	Host         string `yaml:"host"`
	Port         uint16 `yaml:"port"`
	Transport    string `yaml:"transport"`
	Timeout      string `yaml:"timeout"`
	Retries      *int   `yaml:"retries"`
	Version      string `yaml:"version"`
	Community    string `yaml:"community"`
	SecurityName string `yaml:"security_name"`
	AuthPassword string `yaml:"auth_password"`
	PrivPassword string `yaml:"priv_password"`
	Protocols    string `yaml:"protocols"`
}

// Config is the parsed device profile file.
type Config struct {
	Profiles map[string]DeviceProfile `yaml:"profiles"`
}

// NewConfig returns an empty configuration.
func NewConfig() *Config {
	return &Config{Profiles: make(map[string]DeviceProfile)}
}

// ReadConfig parses a YAML device profile file.
func ReadConfig(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %s", path, err.Error())
	}

	conf := NewConfig()
	if err := yaml.Unmarshal(raw, conf); err != nil {
		return nil, fmt.Errorf("parsing %s: %s", path, err.Error())
	}

	return conf, nil
}

// SNMPConfig resolves a profile into a partial snmpconn.Config. The
// returned config still passes through the credential negotiation in
// snmpconn.Build.
func (c *Config) SNMPConfig(profile string) (snmpconn.Config, error) {
	prof, ok := c.Profiles[profile]
	if !ok {
		return snmpconn.Config{}, fmt.Errorf("no such device profile: %s", profile)
	}

	conf := snmpconn.Config{
		Host:        prof.Host,
		Port:        prof.Port,
		Transport:   prof.Transport,
		Retries:     prof.Retries,
		VersionHint: prof.Version,
		Community:   prof.Community,
		SecName:     prof.SecurityName,
		AuthPass:    prof.AuthPassword,
		PrivPass:    prof.PrivPassword,
		Protocols:   prof.Protocols,
	}
	if prof.Timeout != "" {
		seconds, err := utils.ExpandDuration(prof.Timeout)
		if err != nil {
			return snmpconn.Config{}, fmt.Errorf("profile %s: %s", profile, err.Error())
		}
		conf.Timeout = time.Duration(seconds * float64(time.Second))
	}

	return conf, nil
}
