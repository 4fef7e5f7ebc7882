package main

import (
	"flag"
	"net/url"
	"strings"
	"time"

	"github.com/veilproxy/veilproxy/aeadcore"
)

var config struct {
	Verbose    bool
	UDP        bool
	UDPTimeout time.Duration
	Cipher     string
	Key        string
	Password   string
	Client     string
	Server     string
	TCPTun     PairList
	UDPTun     PairList
}

func init() {
	flag.BoolVar(&config.Verbose, "verbose", false, "verbose mode")
	flag.StringVar(&config.Cipher, "cipher", "chacha20-ietf-poly1305", "AEAD method: "+methodNames())
	flag.StringVar(&config.Key, "key", "", "base64url-encoded key (derive from password if empty)")
	flag.StringVar(&config.Password, "password", "", "password")
	flag.StringVar(&config.Server, "s", "", "server listen address or veil:// url")
	flag.StringVar(&config.Client, "c", "", "client connect address or veil:// url")
	flag.Var(&config.TCPTun, "tcptun", "(client-only) TCP tunnel (laddr1=raddr1,laddr2=raddr2,...)")
	flag.Var(&config.UDPTun, "udptun", "(client-only) UDP tunnel (laddr1=raddr1,laddr2=raddr2,...)")
	flag.BoolVar(&config.UDP, "udp", false, "(server-only) UDP support")
	flag.DurationVar(&config.UDPTimeout, "udptimeout", 120*time.Second, "UDP tunnel timeout")
}

func methodNames() string {
	methods := aeadcore.Methods()
	names := make([]string, len(methods))
	for i, m := range methods {
		names[i] = m.String()
	}
	return strings.Join(names, " ")
}

// parseURL extracts an address, cipher, and password from a veil://
// cipher:password@host:port url, falling back to the raw string as a bare
// address when it doesn't parse as a URL at all.
func parseURL(s string) (addr, cipher, password string) {
	u, err := url.Parse(s)
	if err != nil || u.Host == "" {
		return s, "", ""
	}
	addr = u.Host
	if u.User != nil {
		cipher = u.User.Username()
		password, _ = u.User.Password()
	}
	return addr, cipher, password
}

// PairList parses a comma-separated list of key=value pairs, used for the
// -tcptun/-udptun flags (laddr1=raddr1,laddr2=raddr2,...).
type PairList [][2]string

func (l PairList) String() string {
	s := make([]string, len(l))
	for i, pair := range l {
		s[i] = pair[0] + "=" + pair[1]
	}
	return strings.Join(s, ",")
}

func (l *PairList) Set(s string) error {
	for _, item := range strings.Split(s, ",") {
		pair := strings.SplitN(item, "=", 2)
		if len(pair) != 2 {
			continue
		}
		*l = append(*l, [2]string{pair[0], pair[1]})
	}
	return nil
}
