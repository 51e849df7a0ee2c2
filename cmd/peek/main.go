package main

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
	"github.com/oomph-ac/peek/handler"
	"github.com/oomph-ac/peek/player"
	"github.com/oomph-ac/peek/provider"
	"github.com/oomph-ac/peek/settings"
	"github.com/oomph-ac/peek/worker"
	"github.com/oomph-ac/peek/world"
	"github.com/sandertv/go-raknet"
	"github.com/sandertv/gophertunnel/minecraft"
	"github.com/sirupsen/logrus"
)

const settingsPath = "config.toml"

// The following program implements a proxy that forwards players from one local address to a remote address and
// answers the server data requests of their clients.
func main() {
	s := readSettings()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{
		ForceColors:     true,
		TimestampFormat: "2006-01-02 15:04:05",
		FullTimestamp:   true,
	})
	log.SetLevel(s.Level())

	if s.Peek.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: s.Peek.SentryDSN}); err != nil {
			log.Fatalf("unable to initialise sentry: %v", err)
		}
		defer sentry.Flush(2 * time.Second)
	}

	if _, err := raknet.Ping(s.Proxy.RemoteAddress); err != nil {
		log.Warnf("remote server %v did not answer ping: %v", s.Proxy.RemoteAddress, err)
	}

	if s.Proxy.StatsViewAddress != "" {
		// The configuration must be set before statsview.New() is called.
		viewer.SetConfiguration(viewer.WithTheme(viewer.ThemeWesteros), viewer.WithAddr(s.Proxy.StatsViewAddress))
		go statsview.New().Start()
	}

	p, err := minecraft.NewForeignStatusProvider(s.Proxy.RemoteAddress)
	if err != nil {
		log.Fatalf("unable to create status provider: %v", err)
	}
	listener, err := minecraft.ListenConfig{
		StatusProvider:      p,
		AllowUnknownPackets: true,
		AllowInvalidPackets: true,
	}.Listen("raknet", s.Proxy.LocalAddress)
	if err != nil {
		log.Fatalf("unable to listen on %v: %v", s.Proxy.LocalAddress, err)
	}
	defer listener.Close()

	registry := provider.NewRegistry()
	provider.RegisterDefaults(registry)
	pool := worker.New(s.Peek.Workers, log)
	defer pool.Close()
	srv := handler.NewServer(s, registry, pool, log)

	log.Infof("peek is now listening on %v and directing connections to %v", s.Proxy.LocalAddress, s.Proxy.RemoteAddress)
	for {
		c, err := listener.Accept()
		if err != nil {
			log.Errorf("unable to accept connection: %v", err)
			return
		}
		go handleConn(c.(*minecraft.Conn), listener, s, srv, log)
	}
}

// handleConn handles a new incoming minecraft.Conn from the minecraft.Listener passed.
func handleConn(conn *minecraft.Conn, listener *minecraft.Listener, s settings.Settings, srv *handler.Server, log *logrus.Logger) {
	serverConn, err := minecraft.Dialer{
		IdentityData: conn.IdentityData(),
		ClientData:   conn.ClientData(),
	}.Dial("raknet", s.Proxy.RemoteAddress)
	if err != nil {
		log.Errorf("unable to connect %v to the remote server: %v", conn.IdentityData().DisplayName, err)
		_ = listener.Disconnect(conn, "unable to reach the server")
		return
	}

	var g sync.WaitGroup
	g.Add(2)
	go func() {
		defer g.Done()
		if err := conn.StartGame(serverConn.GameData()); err != nil {
			log.Debugf("unable to start game: %v", err)
		}
	}()
	go func() {
		defer g.Done()
		if err := serverConn.DoSpawn(); err != nil {
			log.Debugf("unable to spawn: %v", err)
		}
	}()
	g.Wait()

	w := world.New(log)
	defer w.PurgeChunks()

	p := player.New(conn.IdentityData().DisplayName, w, log)
	data := serverConn.GameData()
	p.Move(data.PlayerPosition, data.Yaw, data.Pitch)
	p.SetGameMode(data.PlayerGameMode)

	h := handler.NewWorldHandler(s.Proxy.ChunkRadius)
	var mu sync.Mutex

	g.Add(2)
	go func() {
		defer g.Done()
		defer listener.Disconnect(conn, "connection lost")
		defer serverConn.Close()
		for {
			pk, err := conn.ReadPacket()
			if err != nil {
				return
			}
			mu.Lock()
			h.HandleClientPacket(pk, p)
			mu.Unlock()
			if srv.HandlePacket(p, pk, conn) {
				continue
			}
			if err := serverConn.WritePacket(pk); err != nil {
				var disconnect minecraft.DisconnectError
				if errors.As(err, &disconnect) {
					_ = listener.Disconnect(conn, disconnect.Error())
				}
				return
			}
		}
	}()
	go func() {
		defer g.Done()
		defer serverConn.Close()
		defer listener.Disconnect(conn, "connection lost")
		for {
			pk, err := serverConn.ReadPacket()
			if err != nil {
				var disconnect minecraft.DisconnectError
				if errors.As(err, &disconnect) {
					_ = listener.Disconnect(conn, disconnect.Error())
				}
				return
			}
			mu.Lock()
			h.HandleServerPacket(pk, p)
			mu.Unlock()
			if err := conn.WritePacket(pk); err != nil {
				return
			}
		}
	}()
	g.Wait()
}

// readSettings reads the settings file, creating it with the default settings if it does not exist yet.
func readSettings() settings.Settings {
	if _, err := os.Stat(settingsPath); os.IsNotExist(err) {
		if err := settings.SaveDefault(settingsPath); err != nil {
			fmt.Printf("error creating settings: %v\n", err)
			os.Exit(1)
		}
	}
	s, err := settings.Load(settingsPath)
	if err != nil {
		fmt.Printf("error reading settings: %v\n", err)
		os.Exit(1)
	}
	return s
}
