package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"russify/internal/domain"
	"russify/internal/portal"

	"github.com/gabriel-vasile/mimetype"
	"github.com/spf13/cobra"
)

var loginCmd = &cobra.Command{
	Use:   "login <phone-or-email>",
	Short: "Log in and store the session",
	Args:  cobra.ExactArgs(1),
	RunE:  runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored session",
	RunE:  runLogout,
}

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show the partner or admin dashboard",
	RunE:  runDashboard,
}

var threadCmd = &cobra.Command{
	Use:   "thread",
	Short: "Read or write the message thread of a request",
}

var threadShowCmd = &cobra.Command{
	Use:   "show <request-id>",
	Short: "Print the thread",
	Args:  cobra.ExactArgs(1),
	RunE:  runThreadShow,
}

var threadSendCmd = &cobra.Command{
	Use:   "send <request-id> [text]",
	Short: "Send a message and/or a file",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runThreadSend,
}

var (
	loginPassword string
	sendFile      string
)

func init() {
	loginCmd.Flags().StringVar(&loginPassword, "password", os.Getenv("RUSSIFY_PASSWORD"), "Password (or set RUSSIFY_PASSWORD)")
	threadSendCmd.Flags().StringVar(&sendFile, "file", "", "Attach a file (at most 10 MiB)")

	threadCmd.AddCommand(threadShowCmd)
	threadCmd.AddCommand(threadSendCmd)
}

func newPortalClient() *portal.Client {
	return portal.NewClient(apiURL, portal.NewSession(portal.NewFileStore(sessionPath)), portal.WithLogger(logger))
}

// sessionRole is the role of the stored user.
func sessionRole(c *portal.Client) (domain.UserRole, error) {
	user, err := c.Session().User()
	if err != nil {
		return "", err
	}
	if user == nil || c.Session().Token() == "" {
		return "", portal.ErrNotAuthenticated
	}
	return user.Role, nil
}

func runLogin(cmd *cobra.Command, args []string) error {
	if loginPassword == "" {
		return errors.New("--password or RUSSIFY_PASSWORD is required")
	}
	ctx, cancel := commandContext(cmd)
	defer cancel()

	user, err := newPortalClient().Login(ctx, args[0], loginPassword)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "logged in as %s (%s)\n", user.Name, user.Role)
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	if err := newPortalClient().Logout(); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "logged out")
	return nil
}

func runDashboard(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	client := newPortalClient()
	role, err := sessionRole(client)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if role == domain.RoleAdmin {
		d, err := client.AdminDashboard(ctx)
		if err != nil {
			return err
		}
		s := portal.SummarizeAdmin(d)
		fmt.Fprintf(out, "requests: %d  unread: %d  partners: %d  works: %d  revenue: %.2f\n",
			s.Requests, s.Unread, s.Partners, s.Works, s.Revenue)
		fmt.Fprintf(out, "unpaid bonuses: %d (%d points)\n\n", s.UnpaidBonusCount, s.UnpaidBonusPoints)
		return printRequests(out, d.Requests)
	}

	d, err := client.PartnerDashboard(ctx)
	if err != nil {
		return err
	}
	s := portal.SummarizePartner(d)
	fmt.Fprintf(out, "requests: %d  active: %d  completed: %d  unread: %d\n",
		s.Requests, s.Active, s.Completed, s.Unread)
	fmt.Fprintf(out, "bonus balance: %d (earned %d, spent %d)\n\n", s.BonusBalance, s.Bonus.Earned, s.Bonus.Spent)
	return printRequests(out, d.Requests)
}

func printRequests(out io.Writer, reqs []domain.ServiceRequest) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCREATED\tSTATUS\tCAR\tSERVICE\tCLIENT\tUNREAD")
	for _, r := range reqs {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s %s %d\t%s\t%s\t%d\n",
			r.ID, r.CreatedAt.Local().Format(time.DateOnly), r.Status,
			r.CarBrand, r.CarModel, r.CarYear, r.ServiceType, r.ClientName, r.UnreadCount)
	}
	return w.Flush()
}

// openThread picks the viewer side from the stored session.
func openThread(client *portal.Client, arg string) (*portal.Thread, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return nil, fmt.Errorf("invalid request id %q", arg)
	}
	role, err := sessionRole(client)
	if err != nil {
		return nil, err
	}
	return client.Thread(role.SenderType(), id), nil
}

func runThreadShow(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	th, err := openThread(newPortalClient(), args[0])
	if err != nil {
		return err
	}
	if err := th.Load(ctx); err != nil {
		return err
	}
	printThread(cmd.OutOrStdout(), th)
	return nil
}

func runThreadSend(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	th, err := openThread(newPortalClient(), args[0])
	if err != nil {
		return err
	}

	var text string
	if len(args) > 1 {
		text = args[1]
	}

	var file *portal.Attachment
	if sendFile != "" {
		file, err = readAttachment(sendFile)
		if err != nil {
			return err
		}
	}

	if err := th.Send(ctx, text, file); err != nil {
		return err
	}
	printThread(cmd.OutOrStdout(), th)
	return nil
}

// readAttachment refuses oversized files before reading them whole.
func readAttachment(path string) (*portal.Attachment, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.Size() > portal.MaxAttachmentSize {
		return nil, portal.ErrFileTooLarge
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return &portal.Attachment{
		Name: filepath.Base(path),
		Type: mimetype.Detect(data).String(),
		Data: data,
	}, nil
}

func printThread(out io.Writer, th *portal.Thread) {
	for _, m := range th.Messages() {
		who := "them"
		if th.IsSelf(m) {
			who = "you"
		}
		var parts []string
		if m.MessageText != nil && *m.MessageText != "" {
			parts = append(parts, *m.MessageText)
		}
		switch portal.AttachmentKind(m) {
		case portal.KindImage:
			parts = append(parts, "[image "+*m.FileURL+"]")
		case portal.KindLink:
			name := *m.FileURL
			if m.FileName != nil {
				name = *m.FileName
			}
			parts = append(parts, "[file "+name+" "+*m.FileURL+"]")
		}
		fmt.Fprintf(out, "%s  %-4s  %s\n", m.CreatedAt.Local().Format(time.DateTime), who, strings.Join(parts, " "))
	}
}
