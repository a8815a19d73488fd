package sh

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/safety-io/pkg/host"
	"github.com/robotalks/safety-io/pkg/link"
)

// Shell provides ishell backed interactive shell.
type Shell struct {
	Interactive bool
	OutputJSON  bool
	AutoConnect bool

	Shell  *ishell.Shell
	Config *link.Config
	Conn   *Conn
}

// Conn is an open link to a tester.
type Conn struct {
	Ctx    context.Context
	Cancel func()
	Name   string
	Stream io.ReadWriteCloser
	Client *link.Client
	Tester *host.Tester
}

const (
	shellKey          = "$shell"
	unconnectedPrompt = "[none] > "
)

var (
	// flags

	evalOnly   bool
	outputJSON bool

	// commands
	commands = []*ishell.Cmd{
		&PortsCmd,
		&ConnectCmd,
		&DisconnectCmd,
	}
)

func init() {
	flag.BoolVar(&evalOnly, "e", evalOnly, "Evaluation only, no interactive shell.")
	flag.BoolVar(&outputJSON, "json", outputJSON, "Print output in JSON.")
}

// AddCmds is used by other commands providers during init func.
func AddCmds(cmds ...*ishell.Cmd) {
	commands = append(commands, cmds...)
}

// New creates a new shell.
func New(conf *link.Config) *Shell {
	s := &Shell{
		Interactive: !evalOnly,
		OutputJSON:  outputJSON,

		Shell:  ishell.New(),
		Config: conf,
	}
	s.Shell.Set(shellKey, s)
	s.Shell.SetPrompt(unconnectedPrompt)
	for _, cmd := range commands {
		s.Shell.AddCmd(cmd)
	}
	return s
}

// ShellFrom gets Shell from ishell context.
func ShellFrom(c *ishell.Context) *Shell {
	return c.Get(shellKey).(*Shell)
}

// MustBeConnected wraps command func requires a connection.
func MustBeConnected(fn func(c *ishell.Context)) func(c *ishell.Context) {
	return func(c *ishell.Context) {
		if ShellFrom(c).Conn == nil {
			c.Err(fmt.Errorf("not connected"))
			return
		}
		fn(c)
	}
}

// Do runs fn against the connected tester and prints its result, "OK"
// for a nil result.
func Do(c *ishell.Context, fn func(context.Context, *host.Tester) (interface{}, error)) error {
	s := ShellFrom(c)
	if s.Conn == nil {
		err := fmt.Errorf("not connected")
		c.Err(err)
		return err
	}
	ctx, cancel := context.WithTimeout(s.Conn.Ctx, 2*link.DefaultTimeout)
	defer cancel()
	result, err := fn(ctx, s.Conn.Tester)
	if err != nil {
		c.Err(err)
		return err
	}
	return s.Print(c, result)
}

// Print prints a result in text or JSON.
func (s *Shell) Print(c *ishell.Context, result interface{}) error {
	if s.OutputJSON {
		if result == nil {
			result = map[string]bool{"ok": true}
		}
		out, err := json.Marshal(result)
		if err != nil {
			c.Err(err)
			return err
		}
		c.Println(string(out))
		return nil
	}
	if result == nil {
		c.Println("OK")
		return nil
	}
	c.Println(result)
	return nil
}

// WithAutoConnect sets AutoConnect.
func (s *Shell) WithAutoConnect(en bool) *Shell {
	s.AutoConnect = en
	return s
}

// SelectPort detects serial ports and asks for a choice if there are
// several.
func (s *Shell) SelectPort() (string, error) {
	ports, err := link.DetectPorts()
	if err != nil {
		return "", err
	}
	switch len(ports) {
	case 0:
		return "", link.ErrNoPort
	case 1:
		return ports[0].Name, nil
	}
	if !s.Interactive {
		return "", fmt.Errorf("more than 1 serial ports detected in non-interactive mode")
	}
	items := make([]string, len(ports))
	for n, port := range ports {
		items[n] = port.String()
	}
	return ports[s.Shell.MultiChoice(items, "Which one to connect?")].Name, nil
}

// Connect opens the link described by conf.
func (s *Shell) Connect(conf *link.Config) error {
	stream, name, err := conf.Open()
	if err != nil {
		return err
	}
	conn := &Conn{Name: name, Stream: stream, Client: link.NewClient(stream)}
	conn.Tester = host.New(conn.Client)
	conn.Ctx, conn.Cancel = context.WithCancel(context.Background())
	s.Disconnect()
	s.Conn = conn
	go conn.Client.Run(conn.Ctx)
	s.Shell.SetPrompt(fmt.Sprintf("%s > ", name))
	// refresh cached pin states for toggles
	ctx, cancel := context.WithTimeout(conn.Ctx, link.DefaultTimeout)
	defer cancel()
	if _, _, err := conn.Tester.ReadPins(ctx); err != nil {
		s.Shell.Printf("warning: read pins: %v\n", err)
	}
	return nil
}

// Disconnect closes current link.
func (s *Shell) Disconnect() {
	if s.Conn != nil {
		s.Conn.Cancel()
		s.Conn.Stream.Close()
		s.Conn = nil
		s.Shell.SetPrompt(unconnectedPrompt)
	}
}

// Run runs the shell.
func (s *Shell) Run(args ...string) {
	if s.AutoConnect {
		if err := s.Connect(s.Config); err != nil {
			if len(args) > 0 || !s.Interactive {
				log.Fatalf("connect failed: %v", err)
			}
			s.Shell.Printf("connect failed: %v\n", err)
		}
	}
	defer s.Disconnect()

	if len(args) > 0 {
		if err := s.Shell.Process(args...); err != nil {
			log.Fatalln(err)
		}
		return
	}
	if s.Interactive {
		s.Shell.Run()
		return
	}
	log.Fatalln("command expected")
}

var (
	// PortsCmd lists detected serial ports.
	PortsCmd = ishell.Cmd{
		Name:    "ports",
		Aliases: []string{"list", "l"},
		Help:    "list Arduino compatible serial ports",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			ports, err := link.DetectPorts()
			if err != nil {
				c.Err(err)
				return
			}
			if s.OutputJSON {
				if ports == nil {
					ports = []link.PortInfo{}
				}
				s.Print(c, ports)
				return
			}
			if len(ports) == 0 {
				c.Println("No ports found")
				return
			}
			for _, port := range ports {
				c.Println(port.String())
			}
		},
	}

	// ConnectCmd connects a tester.
	ConnectCmd = ishell.Cmd{
		Name:    "connect",
		Aliases: []string{"c"},
		Help:    "[PORT|ws://URL]",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			conf := *s.Config
			switch {
			case len(c.Args) > 0 && isURL(c.Args[0]):
				conf.URL = c.Args[0]
			case len(c.Args) > 0:
				conf.URL, conf.Port = "", c.Args[0]
			default:
				port, err := s.SelectPort()
				if err != nil {
					c.Err(err)
					return
				}
				conf.URL, conf.Port = "", port
			}
			if err := s.Connect(&conf); err != nil {
				c.Err(err)
			}
		},
	}

	// DisconnectCmd disconnects current tester.
	DisconnectCmd = ishell.Cmd{
		Name:    "disconnect",
		Aliases: []string{"d"},
		Help:    "",
		Func: func(c *ishell.Context) {
			ShellFrom(c).Disconnect()
		},
	}
)

func isURL(arg string) bool {
	return len(arg) > 5 && (arg[:5] == "ws://" || (len(arg) > 6 && arg[:6] == "wss://"))
}

// Main is a helper to provide a single call in main.
func Main() {
	link.SetupFlags()
	flag.Parse()
	New(link.NewConfig()).WithAutoConnect(true).Run(flag.Args()...)
}
