package snmpconn

import (
	"fmt"

	"github.com/gosnmp/gosnmp"
)

// Session turns the resolved context into a connected gosnmp session.
// The caller must Close the session when done.
func (sc *SecurityContext) Session() (*gosnmp.GoSNMP, error) {
	g := &gosnmp.GoSNMP{
		Target:    sc.Host,
		Port:      sc.Port,
		Transport: sc.Transport,
		Timeout:   sc.Timeout,
		Retries:   sc.Retries,
		MaxOids:   gosnmp.MaxOids,
	}

	switch sc.Version {
	case "1":
		g.Version = gosnmp.Version1
		g.Community = sc.Community
	case "2c":
		g.Version = gosnmp.Version2c
		g.Community = sc.Community
	case "3":
		g.Version = gosnmp.Version3
		g.SecurityModel = gosnmp.UserSecurityModel
		g.MsgFlags = sc.msgFlags()
		g.SecurityParameters = &gosnmp.UsmSecurityParameters{
			UserName:                 sc.SecName,
			AuthenticationProtocol:   authProtocol(sc.AuthProtocol),
			AuthenticationPassphrase: sc.AuthPass,
			PrivacyProtocol:          privProtocol(sc.PrivProtocol),
			PrivacyPassphrase:        sc.PrivPass,
		}
	default:
		return nil, fmt.Errorf("unsupported snmp version %q", sc.Version)
	}

	if err := g.Connect(); err != nil {
		return nil, fmt.Errorf("snmp connect %s:%d: %s", sc.Host, sc.Port, err.Error())
	}

	return g, nil
}

func (sc *SecurityContext) msgFlags() gosnmp.SnmpV3MsgFlags {
	switch sc.Level {
	case AuthPriv:
		return gosnmp.AuthPriv
	case AuthNoPriv:
		return gosnmp.AuthNoPriv
	default:
		return gosnmp.NoAuthNoPriv
	}
}

func authProtocol(name string) gosnmp.SnmpV3AuthProtocol {
	switch name {
	case "md5":
		return gosnmp.MD5
	case "sha":
		return gosnmp.SHA
	case "sha224":
		return gosnmp.SHA224
	case "sha256":
		return gosnmp.SHA256
	case "sha384":
		return gosnmp.SHA384
	case "sha512":
		return gosnmp.SHA512
	default:
		return gosnmp.NoAuth
	}
}

func privProtocol(name string) gosnmp.SnmpV3PrivProtocol {
	switch name {
	case "des":
		return gosnmp.DES
	case "aes":
		return gosnmp.AES
	case "aes192":
		return gosnmp.AES192
	case "aes256":
		return gosnmp.AES256
	case "aes192c":
		return gosnmp.AES192C
	case "aes256c":
		return gosnmp.AES256C
	default:
		return gosnmp.NoPriv
	}
}
