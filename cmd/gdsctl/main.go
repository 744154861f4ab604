package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/docker/cli/cli/command/formatter/tabwriter"
	"github.com/navikt/gds-console/pkg/datashare"
	"github.com/navikt/gds-console/pkg/gds"
	"github.com/navikt/gds-console/pkg/service"
	httpapi "github.com/navikt/gds-console/pkg/service/core/api/http"
	"github.com/rs/zerolog"
	flag "github.com/spf13/pflag"
)

var (
	apiURL   = flag.String("api-url", envOr("RANGER_API_URL", "http://localhost:6080/service"), "ranger admin API base URL")
	username = flag.String("username", envOr("RANGER_ADMIN_USERNAME", "admin"), "ranger admin user")
	password = flag.String("password", os.Getenv("RANGER_ADMIN_PASSWORD"), "ranger admin password")
	outDir   = flag.String("out", ".", "directory the export is written to")
	verbose  = flag.BoolP("verbose", "v", false, "log upstream calls")
)

const usage = `usage: gdsctl [flags] <command> <datashare id> [args]

commands:
  show <id>             print the datashare and its principals
  resources <id> [page] print a page of shared resources
  requests <id> [page]  print a page of dataset requests
  export <id>           write the datashare with all resources and requests to <out>/<name>.json
`

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}

	return fallback
}

func main() {
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() < 2 {
		flag.Usage()
		os.Exit(2)
	}

	id, err := strconv.ParseInt(flag.Arg(1), 10, 64)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid datashare id %q\n", flag.Arg(1))
		os.Exit(2)
	}

	page := 0
	if flag.NArg() > 2 {
		page, err = strconv.Atoi(flag.Arg(2))
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid page %q\n", flag.Arg(2))
			os.Exit(2)
		}
	}

	level := zerolog.WarnLevel
	if *verbose {
		level = zerolog.DebugLevel
	}

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()

	client := gds.New(*apiURL, *username, *password, &http.Client{Timeout: 30 * time.Second})
	api := httpapi.NewDataShareAPI(client, log)

	// The CLI runs with the ranger admin credentials.
	v := datashare.New(api, log, datashare.Config{
		DataShareID: id,
		Actor:       service.Actor{Name: *username, SystemAdmin: true},
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	err = run(ctx, v, flag.Arg(0), page, *outDir, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "gdsctl: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, v *datashare.View, command string, page int, outDir string, out io.Writer) error {
	if err := v.Load(ctx); err != nil {
		return err
	}

	switch command {
	case "show":
		return printDataShare(v.Snapshot(), out)
	case "resources":
		if err := v.ListResources(ctx, service.ListInput{Page: page}); err != nil {
			return err
		}

		return printResources(v.Snapshot(), out)
	case "requests":
		if err := v.ListRequests(ctx, service.ListInput{Page: page}); err != nil {
			return err
		}

		return printRequests(v.Snapshot(), out)
	case "export":
		file, err := v.Export(ctx)
		if err != nil {
			return err
		}

		path := filepath.Join(outDir, file.FileName)

		err = os.WriteFile(path, file.Data, 0o600)
		if err != nil {
			return fmt.Errorf("writing export: %w", err)
		}

		_, _ = fmt.Fprintf(out, "wrote %s (%d bytes)\n", path, len(file.Data))

		return nil
	}

	return fmt.Errorf("unknown command %q", command)
}

func printDataShare(st *service.DataShareViewState, out io.Writer) error {
	if st.DataShare == nil {
		return fmt.Errorf("datashare %d could not be loaded", st.DataShareID)
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	_, _ = fmt.Fprintf(w, "ID\t%d\n", st.DataShare.ID)
	_, _ = fmt.Fprintf(w, "Name\t%s\n", st.DataShare.Name)
	_, _ = fmt.Fprintf(w, "Service\t%s\n", st.DataShare.Service)
	_, _ = fmt.Fprintf(w, "Description\t%s\n", st.DataShare.Description)
	_, _ = fmt.Fprintf(w, "Terms of use\t%s\n", st.DataShare.TermsOfUse)
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, "Type\tPrincipal\tPermission")

	for _, list := range [][]service.Principal{st.Draft.Principals.Users, st.Draft.Principals.Groups, st.Draft.Principals.Roles} {
		for _, p := range list {
			_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", p.Type, p.Name, p.Perm)
		}
	}

	return w.Flush()
}

func printResources(st *service.DataShareViewState, out io.Writer) error {
	if st.Resources.LoadState == service.LoadStateFailed {
		return fmt.Errorf("fetching shared resources of datashare %d failed", st.DataShareID)
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	_, _ = fmt.Fprintln(w, "ID\tName\tResource\tAccess types")

	for _, r := range st.Resources.Items {
		var parts []string
		for _, typ := range st.ServiceDef.OrderedResourceTypes(r.Resource) {
			parts = append(parts, typ+"="+strings.Join(r.Resource[typ].Values, ","))
		}

		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", r.ID, r.Name, strings.Join(parts, " "), strings.Join(r.AccessTypes, ","))
	}

	_, _ = fmt.Fprintf(w, "\npage %d of %d (%d total)\n", st.Resources.Page+1, st.Resources.PageCount, st.Resources.TotalCount)

	return w.Flush()
}

func printRequests(st *service.DataShareViewState, out io.Writer) error {
	if st.Requests.LoadState == service.LoadStateFailed {
		return fmt.Errorf("fetching dataset requests of datashare %d failed", st.DataShareID)
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	_, _ = fmt.Fprintln(w, "ID\tDataset\tStatus\tApprover\tLink")

	for _, r := range st.Requests.Items {
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", r.ID, r.DatasetName, r.Status, r.Approver, datashare.DatasetDetailPath(r.DatasetID))
	}

	_, _ = fmt.Fprintf(w, "\npage %d of %d (%d total)\n", st.Requests.Page+1, st.Requests.PageCount, st.Requests.TotalCount)

	return w.Flush()
}
