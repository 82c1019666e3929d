// Package snmpconn resolves partial SNMP credentials into a fully
// specified connection context and turns that context into live gosnmp
// sessions. All snprobe SNMP checks share this logic instead of carrying
// their own copy of the version/credential negotiation.
package snmpconn

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// protocol defaults per probe generation
const (
	DefaultProtocols = "sha,aes"
	LegacyProtocols  = "md5,des"

	DefaultPort    = uint16(161)
	DefaultTimeout = 5 * time.Second
	DefaultRetries = 1
)

var (
	// ErrMissingCredential is returned when neither a community string nor
	// a v3 security name can be resolved from the configuration.
	ErrMissingCredential = errors.New("missing credentials, either a community or a security name is required")

	// ErrInvalidProtocolList is returned when the protocols option does not
	// contain exactly one auth and one privacy protocol separated by a comma.
	ErrInvalidProtocolList = errors.New("protocols must be given as '<auth>,<priv>', ex.: 'sha,aes'")
)

var (
	knownAuthProtocols = map[string]bool{
		"md5": true, "sha": true, "sha224": true, "sha256": true, "sha384": true, "sha512": true,
	}
	knownPrivProtocols = map[string]bool{
		"des": true, "aes": true, "aes192": true, "aes256": true, "aes192c": true, "aes256c": true,
	}
)

// SecurityLevel is the derived v3 authentication/privacy combination.
type SecurityLevel uint8

const (
	NoAuthNoPriv SecurityLevel = iota
	AuthNoPriv
	AuthPriv
)

func (l SecurityLevel) String() string {
	switch l {
	case AuthNoPriv:
		return "authNoPriv"
	case AuthPriv:
		return "authPriv"
	}

	return "noAuthNoPriv"
}

// Config carries the raw, possibly incomplete connection options as they
// arrive from command line flags or a device profile.
type Config struct {
	Host        string
	Port        uint16
	Transport   string // udp, tcp, udp6 or tcp6
	Timeout     time.Duration
	Retries     *int   // nil means DefaultRetries, explicit 0 disables retries
	VersionHint string // "", "1", "2c" or "3"
	Community   string
	SecName     string
	AuthPass    string
	PrivPass    string
	Protocols   string // "<auth>,<priv>"
}

// SecurityContext is the fully resolved connection configuration. It is
// built once per probe run and used read-only afterwards.
type SecurityContext struct {
	Version   string // "1", "2c" or "3"
	Host      string
	Port      uint16
	Transport string
	Timeout   time.Duration
	Retries   int

	// v1/v2c
	Community string

	// v3
	SecName      string
	Level        SecurityLevel
	AuthProtocol string
	AuthPass     string
	PrivProtocol string
	PrivPass     string
}

// Build resolves a Config into a SecurityContext.
//
// An explicit "2c" version hint requires a community string. Without a
// version hint an empty community infers v3 (requiring a security name)
// and a non-empty community produces a v1 context. The v3 security level
// is never set directly, it derives from which passwords are present.
func Build(conf Config) (*SecurityContext, error) {
	ctx := &SecurityContext{
		Host:      conf.Host,
		Port:      conf.Port,
		Transport: conf.Transport,
		Timeout:   conf.Timeout,
		Retries:   DefaultRetries,
	}
	if conf.Retries != nil && *conf.Retries >= 0 {
		ctx.Retries = *conf.Retries
	}
	if ctx.Port == 0 {
		ctx.Port = DefaultPort
	}
	if ctx.Transport == "" {
		ctx.Transport = "udp"
	}
	if ctx.Timeout <= 0 {
		ctx.Timeout = DefaultTimeout
	}

	switch conf.VersionHint {
	case "2c":
		if conf.Community == "" {
			return nil, fmt.Errorf("snmp v2c: %w", ErrMissingCredential)
		}
		ctx.Version = "2c"
		ctx.Community = conf.Community

		return ctx, nil
	case "1":
		if conf.Community == "" {
			return nil, fmt.Errorf("snmp v1: %w", ErrMissingCredential)
		}
		ctx.Version = "1"
		ctx.Community = conf.Community

		return ctx, nil
	case "", "3":
		if conf.VersionHint == "" && conf.Community != "" {
			ctx.Version = "1"
			ctx.Community = conf.Community

			return ctx, nil
		}

		return buildV3(ctx, conf)
	default:
		return nil, fmt.Errorf("unsupported snmp version: %s", conf.VersionHint)
	}
}

func buildV3(ctx *SecurityContext, conf Config) (*SecurityContext, error) {
	if conf.SecName == "" {
		return nil, fmt.Errorf("snmp v3: %w", ErrMissingCredential)
	}
	ctx.Version = "3"
	ctx.SecName = conf.SecName

	// level derives from the supplied passwords
	switch {
	case conf.AuthPass == "":
		ctx.Level = NoAuthNoPriv

		return ctx, nil
	case conf.PrivPass == "":
		ctx.Level = AuthNoPriv
	default:
		ctx.Level = AuthPriv
	}

	authProto, privProto, err := splitProtocols(conf.Protocols)
	if err != nil {
		return nil, err
	}

	ctx.AuthProtocol = authProto
	ctx.AuthPass = conf.AuthPass
	if ctx.Level == AuthPriv {
		ctx.PrivProtocol = privProto
		ctx.PrivPass = conf.PrivPass
	}

	return ctx, nil
}

// splitProtocols splits a "<auth>,<priv>" option on the first comma and
// validates both tokens.
func splitProtocols(protocols string) (authProto, privProto string, err error) {
	if protocols == "" {
		protocols = DefaultProtocols
	}
	authProto, privProto, found := strings.Cut(protocols, ",")
	if !found {
		return "", "", fmt.Errorf("%w (got %q)", ErrInvalidProtocolList, protocols)
	}
	authProto = strings.ToLower(strings.TrimSpace(authProto))
	privProto = strings.ToLower(strings.TrimSpace(privProto))
	if !knownAuthProtocols[authProto] {
		return "", "", fmt.Errorf("%w: unknown auth protocol %q", ErrInvalidProtocolList, authProto)
	}
	if !knownPrivProtocols[privProto] {
		return "", "", fmt.Errorf("%w: unknown privacy protocol %q", ErrInvalidProtocolList, privProto)
	}

	return authProto, privProto, nil
}

// Credential returns a stable string identifying the credential part of
// the context, used to key the on-disk ticket cache.
func (sc *SecurityContext) Credential() string {
	if sc.Version == "3" {
		return fmt.Sprintf("%s/%s", sc.SecName, sc.Level)
	}

	return sc.Community
}
