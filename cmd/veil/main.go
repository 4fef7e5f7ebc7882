// Command veil runs an AEAD-framed TCP/UDP tunnel, either as a client
// (dialing a server and forwarding fixed local tunnels through it) or as a
// server (accepting encrypted connections and relaying to whatever target
// address each one carries).
package main

import (
	"crypto/rand"
	"encoding/base64"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/veilproxy/veilproxy/replay"
	"github.com/veilproxy/veilproxy/veil"
)

func logf(f string, v ...interface{}) {
	if config.Verbose {
		log.Printf(f, v...)
	}
}

func main() {
	var keygen int
	flag.IntVar(&keygen, "keygen", 0, "generate a base64url-encoded random key of the given length in bytes, then exit")
	flag.Parse()

	if keygen > 0 {
		key := make([]byte, keygen)
		if _, err := io.ReadFull(rand.Reader, key); err != nil {
			log.Fatal(err)
		}
		fmt.Println(base64.URLEncoding.EncodeToString(key))
		return
	}

	if config.Client == "" && config.Server == "" {
		flag.Usage()
		return
	}

	var key []byte
	if config.Key != "" {
		k, err := base64.URLEncoding.DecodeString(config.Key)
		if err != nil {
			log.Fatal(err)
		}
		key = k
	}

	if config.Client != "" {
		addr, cipherName, password := parseURL(config.Client)
		if cipherName == "" {
			cipherName = config.Cipher
		}
		if password == "" {
			password = config.Password
		}

		ciph, err := veil.PickCipher(cipherName, key, password, nil)
		if err != nil {
			log.Fatal(err)
		}

		for _, pair := range config.TCPTun {
			go tcpTun(pair[0], addr, pair[1], ciph)
		}
		for _, pair := range config.UDPTun {
			go udpTun(pair[0], addr, pair[1], ciph, config.UDPTimeout)
		}
	}

	if config.Server != "" {
		addr, cipherName, password := parseURL(config.Server)
		if cipherName == "" {
			cipherName = config.Cipher
		}
		if password == "" {
			password = config.Password
		}

		filter := replay.NewDefault()
		ciph, err := veil.PickCipher(cipherName, key, password, filter)
		if err != nil {
			log.Fatal(err)
		}

		go tcpRemote(addr, ciph)
		if config.UDP {
			go udpRemote(addr, ciph, config.UDPTimeout)
		}
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
}
