package commands

import (
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/moodlog/pkg/runner/mcp"
)

type mcpOptions struct {
	transport string
	host      string
	port      int
	path      string
	tlsCert   string
	tlsKey    string
}

func addMCP(topLevel *cobra.Command) {
	o := &mcpOptions{}

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "start the Model Context Protocol server",
		Long: `Launch an MCP server that lets an assistant record moods, read entries, and
manage the check-in schedule through the Model Context Protocol.`,
		Example: `
moodlog mcp
moodlog mcp --transport http --http-port 0
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			transport, err := o.Transport()
			if err != nil {
				return err
			}
			// stdio carries the protocol, so logs must stay off the console.
			s, err := loadSession(transport == mcp.TransportStdio)
			if err != nil {
				return err
			}
			defer func() { _ = s.Log.Sync() }()

			runner := mcp.Runner{
				Service:          s.Service,
				Name:             "moodlog",
				Version:          version,
				Log:              s.Log,
				Transport:        transport,
				HTTPEndpointPath: mcp.EndpointPath(o.path),
				HTTPServerCert:   strings.TrimSpace(o.tlsCert),
				HTTPServerKey:    strings.TrimSpace(o.tlsKey),
			}
			if transport == mcp.TransportHTTP {
				if runner.HTTPListenAddr, err = o.ListenAddr(); err != nil {
					return err
				}
			}
			return runner.Do(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&o.transport, "transport", string(mcp.TransportStdio), "transport to use: http or stdio")
	cmd.Flags().StringVar(&o.host, "http-host", "127.0.0.1", "host/interface for HTTP transport")
	cmd.Flags().IntVar(&o.port, "http-port", 8080, "port for HTTP transport (use 0 for random)")
	cmd.Flags().StringVar(&o.path, "http-path", "/mcp", "HTTP endpoint path")
	cmd.Flags().StringVar(&o.tlsCert, "http-tls-cert", "", "TLS certificate file for HTTPS")
	cmd.Flags().StringVar(&o.tlsKey, "http-tls-key", "", "TLS private key file for HTTPS")

	topLevel.AddCommand(cmd)
}

func (o *mcpOptions) Transport() (mcp.Transport, error) {
	switch t := strings.ToLower(strings.TrimSpace(o.transport)); t {
	case "", string(mcp.TransportStdio):
		return mcp.TransportStdio, nil
	case string(mcp.TransportHTTP):
		return mcp.TransportHTTP, nil
	default:
		return "", fmt.Errorf("unsupported transport %q (expected http or stdio)", o.transport)
	}
}

func (o *mcpOptions) ListenAddr() (string, error) {
	host := strings.TrimSpace(o.host)
	if host == "" {
		host = "127.0.0.1"
	}
	if o.port < 0 || o.port > 65535 {
		return "", fmt.Errorf("invalid http-port %d", o.port)
	}
	return net.JoinHostPort(host, strconv.Itoa(o.port)), nil
}
