package snprobe

import (
	"fmt"
	"time"

	"github.com/consol-monitoring/snprobe/pkg/snmpconn"
	"github.com/consol-monitoring/snprobe/pkg/utils"
)

// snmpArgs is the connection argument set shared by all SNMP probes.
// Every probe used to carry its own copy of this negotiation, it lives
// here exactly once now.
type snmpArgs struct {
	hostname  string
	port      int64
	transport string
	timeout   string
	retries   int64
	version   string
	community string
	secName   string
	authPass  string
	privPass  string
	protocols string
	profile   string
}

// arguments returns the common SNMP flag table, merged by the probes
// into their own argument maps.
func (sa *snmpArgs) arguments() map[string]CheckArgument {
	// negative means the flag was not given, an explicit 0 disables retries
	sa.retries = -1

	return map[string]CheckArgument{
		"-H|--hostname":     {value: &sa.hostname, description: "Hostname or IP of the device to check"},
		"-p|--port":         {value: &sa.port, description: "SNMP port (default: 161)"},
		"--transport":       {value: &sa.transport, description: "Transport: udp, tcp, udp6 or tcp6 (default: udp)"},
		"-t|--timeout":      {value: &sa.timeout, description: "Request timeout, ex.: 5s (default: 5s)"},
		"--retries":         {value: &sa.retries, description: "Number of retries on timeout (default: 1)"},
		"-P|--snmp-version": {value: &sa.version, description: "SNMP version: 1, 2c or 3 (default: derived from credentials)"},
		"-C|--community":    {value: &sa.community, description: "Community string for SNMP v1/v2c"},
		"-u|--secname":      {value: &sa.secName, description: "Security name for SNMP v3"},
		"-A|--authpassword": {value: &sa.authPass, description: "Auth password for SNMP v3, enables authNoPriv"},
		"-X|--privpassword": {value: &sa.privPass, description: "Privacy password for SNMP v3, enables authPriv"},
		"-L|--protocols":    {value: &sa.protocols, description: "Auth and privacy protocol pair, ex.: sha,aes (default: " + snmpconn.DefaultProtocols + ")"},
		"--profile":         {value: &sa.profile, description: "Use connection settings from this device profile"},
	}
}

// buildContext resolves the flags (and optional device profile) into a
// security context. Flags win over profile values.
func (sa *snmpArgs) buildContext(snc *Agent) (*snmpconn.SecurityContext, error) {
	conf := snmpconn.Config{}
	if sa.profile != "" {
		profileConf, err := snc.Config().SNMPConfig(sa.profile)
		if err != nil {
			return nil, err
		}
		conf = profileConf
	}

	if sa.hostname != "" {
		conf.Host = sa.hostname
	}
	if conf.Host == "" {
		return nil, fmt.Errorf("no hostname given, use -H <hostname>")
	}
	if sa.port > 0 {
		conf.Port = uint16(sa.port)
	}
	if sa.transport != "" {
		conf.Transport = sa.transport
	}
	if sa.retries >= 0 {
		retries := int(sa.retries)
		conf.Retries = &retries
	}
	if sa.version != "" {
		conf.VersionHint = sa.version
	}
	if sa.community != "" {
		conf.Community = sa.community
	}
	if sa.secName != "" {
		conf.SecName = sa.secName
	}
	if sa.authPass != "" {
		conf.AuthPass = sa.authPass
	}
	if sa.privPass != "" {
		conf.PrivPass = sa.privPass
	}
	if sa.protocols != "" {
		conf.Protocols = sa.protocols
	}
	if sa.timeout != "" {
		seconds, err := utils.ExpandDuration(sa.timeout)
		if err != nil {
			return nil, fmt.Errorf("timeout: %s", err.Error())
		}
		conf.Timeout = time.Duration(seconds * float64(time.Second))
	}

	return snmpconn.Build(conf)
}

// mergeArgs combines several argument maps into one, later maps win.
func mergeArgs(maps ...map[string]CheckArgument) map[string]CheckArgument {
	merged := make(map[string]CheckArgument)
	for _, argMap := range maps {
		for key, arg := range argMap {
			merged[key] = arg
		}
	}

	return merged
}
