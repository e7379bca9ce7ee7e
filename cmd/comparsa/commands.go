package main

import (
	"flag"
	"fmt"
	"time"

	"github.com/nosa-terra/comparsa-client/internal/events"
	"github.com/nosa-terra/comparsa-client/internal/models"
	"github.com/nosa-terra/comparsa-client/pkg/rest"
)

func (a *app) run(cmd string, args []string) error {
	switch cmd {
	case "login":
		return a.cmdLogin(args)
	case "register":
		return a.cmdRegister(args)
	case "logout":
		a.session.Logout()
		fmt.Println("logged out")
		return nil
	case "whoami":
		return a.cmdWhoami()
	case "feed":
		return a.cmdFeed(args)
	case "post":
		return a.cmdPost(args)
	case "delete-post":
		return a.cmdDeletePost(args)
	case "like":
		return a.cmdLike(args)
	case "comments":
		return a.cmdComments(args)
	case "comment":
		return a.cmdComment(args)
	case "delete-comment":
		return a.cmdDeleteComment(args)
	case "upcoming":
		return a.cmdUpcoming()
	case "announcements":
		return a.cmdAnnouncements()
	case "announce":
		return a.cmdAnnounce(args)
	case "delete-announcement":
		return a.cmdDeleteAnnouncement(args)
	case "events":
		return a.cmdEvents()
	case "event":
		return a.cmdEvent(args)
	case "attend":
		return a.cmdAttend(args)
	case "create-event":
		return a.cmdCreateEvent(args)
	case "delete-event":
		return a.cmdDeleteEvent(args)
	case "profile":
		return a.cmdProfile(args)
	case "edit-profile":
		return a.cmdEditProfile(args)
	case "stats":
		return a.cmdStats()
	case "users":
		return a.cmdUsers()
	case "set-role":
		return a.cmdSetRole(args)
	case "delete-user":
		return a.cmdDeleteUser(args)
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func (a *app) cmdLogin(args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	fs.Parse(args)

	user, err := a.session.Login(a.ctx, *email, *password)
	if err != nil {
		return fmt.Errorf("%s", rest.Detail(err, "login failed"))
	}
	fmt.Printf("logged in as %s <%s>\n", user.Name, user.Email)
	return nil
}

func (a *app) cmdRegister(args []string) error {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	name := fs.String("name", "", "display name")
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	fs.Parse(args)

	user, err := a.session.Register(a.ctx, *name, *email, *password)
	if err != nil {
		return fmt.Errorf("%s", rest.Detail(err, "registration failed"))
	}
	fmt.Printf("welcome, %s\n", user.Name)
	return nil
}

func (a *app) cmdWhoami() error {
	u := a.session.CurrentUser()
	fmt.Printf("%s <%s> role=%s id=%s\n", u.Name, u.Email, u.Role, u.ID)
	return nil
}

func (a *app) cmdFeed(args []string) error {
	fs := flag.NewFlagSet("feed", flag.ExitOnError)
	category := fs.String("category", "", "filter by category")
	fs.Parse(args)

	if err := a.feed.SetCategory(a.ctx, *category); err != nil {
		return fmt.Errorf("%s", rest.Detail(err, "could not load the feed"))
	}
	posts := a.feed.Posts()
	a.threads.Seed(posts)
	a.threads.PreloadCounts(a.ctx, posts)

	for _, p := range posts {
		liked := " "
		if a.threads.Liked(p.ID) {
			liked = "*"
		}
		fmt.Printf("[%s] %s (%s)\n", p.ID, p.UserName, formatTime(p.CreatedAt))
		fmt.Printf("    %s\n", p.Content)
		fmt.Printf("    %s%d likes, %d comments, category=%s\n",
			liked, a.threads.Likes(p.ID), a.threads.Count(p.ID), p.Category)
	}
	return nil
}

func (a *app) cmdPost(args []string) error {
	fs := flag.NewFlagSet("post", flag.ExitOnError)
	content := fs.String("content", "", "post body")
	image := fs.String("image", "", "image URL")
	category := fs.String("category", "", "post category")
	fs.Parse(args)

	created, err := a.feed.CreatePost(a.ctx, *content, *image, *category)
	if err != nil {
		return fmt.Errorf("%s", rest.Detail(err, "could not publish the post"))
	}
	fmt.Println("posted", created.ID)
	return nil
}

func (a *app) cmdDeletePost(args []string) error {
	fs := flag.NewFlagSet("delete-post", flag.ExitOnError)
	id := fs.String("id", "", "post id")
	fs.Parse(args)

	if !a.confirm("Delete this post?") {
		return nil
	}
	if err := a.feed.DeletePost(a.ctx, *id); err != nil {
		return fmt.Errorf("%s", rest.Detail(err, "could not delete the post"))
	}
	a.threads.Forget(*id)
	fmt.Println("deleted")
	return nil
}

func (a *app) cmdLike(args []string) error {
	fs := flag.NewFlagSet("like", flag.ExitOnError)
	id := fs.String("id", "", "post id")
	fs.Parse(args)

	likes, liked, err := a.threads.ToggleLike(a.ctx, *id)
	if err != nil {
		return fmt.Errorf("%s", rest.Detail(err, "could not update the like"))
	}
	state := "unliked"
	if liked {
		state = "liked"
	}
	fmt.Printf("%s (%d likes)\n", state, likes)
	return nil
}

func (a *app) cmdComments(args []string) error {
	fs := flag.NewFlagSet("comments", flag.ExitOnError)
	id := fs.String("id", "", "post id")
	fs.Parse(args)

	thread, err := a.threads.Comments(a.ctx, *id)
	if err != nil {
		return fmt.Errorf("%s", rest.Detail(err, "could not load comments"))
	}
	for _, c := range thread {
		fmt.Printf("[%s] %s: %s\n", c.ID, c.UserName, c.Content)
	}
	return nil
}

func (a *app) cmdComment(args []string) error {
	fs := flag.NewFlagSet("comment", flag.ExitOnError)
	post := fs.String("post", "", "post id")
	content := fs.String("content", "", "comment body")
	fs.Parse(args)

	created, err := a.threads.AddComment(a.ctx, *post, *content)
	if err != nil {
		return fmt.Errorf("%s", rest.Detail(err, "could not add the comment"))
	}
	fmt.Println("commented", created.ID)
	return nil
}

func (a *app) cmdDeleteComment(args []string) error {
	fs := flag.NewFlagSet("delete-comment", flag.ExitOnError)
	post := fs.String("post", "", "post id")
	id := fs.String("id", "", "comment id")
	fs.Parse(args)

	if !a.confirm("Delete this comment?") {
		return nil
	}
	if err := a.threads.DeleteComment(a.ctx, *post, *id); err != nil {
		return fmt.Errorf("%s", rest.Detail(err, "could not delete the comment"))
	}
	fmt.Println("deleted")
	return nil
}

func (a *app) cmdUpcoming() error {
	list, err := a.feed.UpcomingEvents(a.ctx, time.Now())
	if err != nil {
		return fmt.Errorf("%s", rest.Detail(err, "could not load events"))
	}
	for _, ev := range list {
		fmt.Printf("[%s] %s — %s (%s)\n", ev.ID, ev.Title, ev.Location, formatTime(ev.StartDate))
	}
	return nil
}

func (a *app) cmdAnnouncements() error {
	if err := a.board.Refresh(a.ctx); err != nil {
		return fmt.Errorf("%s", rest.Detail(err, "could not load announcements"))
	}
	for _, an := range a.board.Items() {
		fmt.Printf("[%s] %s (%s, by %s)\n    %s\n", an.ID, an.Title, an.Category, an.CreatedByName, an.Content)
	}
	return nil
}

func (a *app) cmdAnnounce(args []string) error {
	fs := flag.NewFlagSet("announce", flag.ExitOnError)
	title := fs.String("title", "", "announcement title")
	content := fs.String("content", "", "announcement body")
	category := fs.String("category", "", "announcement category")
	fs.Parse(args)

	created, err := a.board.Create(a.ctx, *title, *content, *category)
	if err != nil {
		return fmt.Errorf("%s", rest.Detail(err, "could not create the announcement"))
	}
	fmt.Println("announced", created.ID)
	return nil
}

func (a *app) cmdDeleteAnnouncement(args []string) error {
	fs := flag.NewFlagSet("delete-announcement", flag.ExitOnError)
	id := fs.String("id", "", "announcement id")
	fs.Parse(args)

	if !a.confirm("Delete this announcement?") {
		return nil
	}
	if err := a.board.Delete(a.ctx, *id); err != nil {
		return fmt.Errorf("%s", rest.Detail(err, "could not delete the announcement"))
	}
	fmt.Println("deleted")
	return nil
}

func (a *app) cmdEvents() error {
	if err := a.calendar.Refresh(a.ctx); err != nil {
		return fmt.Errorf("%s", rest.Detail(err, "could not load events"))
	}
	for _, ev := range a.calendar.Events() {
		fmt.Printf("[%s] %s — %s, %s to %s (%s)\n",
			ev.ID, ev.Title, ev.Location, formatTime(ev.StartDate), formatTime(ev.EndDate), ev.Category)
	}
	return nil
}

func (a *app) cmdEvent(args []string) error {
	fs := flag.NewFlagSet("event", flag.ExitOnError)
	id := fs.String("id", "", "event id")
	fs.Parse(args)

	if err := a.calendar.Refresh(a.ctx); err != nil {
		return fmt.Errorf("%s", rest.Detail(err, "could not load events"))
	}
	if err := a.calendar.Select(a.ctx, *id); err != nil {
		return fmt.Errorf("%s", rest.Detail(err, "could not load the roster"))
	}

	if ev, ok := a.calendar.Selected(); ok {
		fmt.Printf("%s — %s\n%s\n", ev.Title, ev.Location, ev.Description)
	}
	fmt.Printf("%d attending\n", a.calendar.AttendingCount())
	for _, att := range a.calendar.Roster() {
		fmt.Printf("  %s: %s\n", att.UserName, att.Status)
	}
	if status, ok := a.calendar.Status(a.session.UserID()); ok {
		fmt.Printf("your status: %s\n", status)
	}
	return nil
}

func (a *app) cmdAttend(args []string) error {
	fs := flag.NewFlagSet("attend", flag.ExitOnError)
	id := fs.String("id", "", "event id")
	status := fs.String("status", string(models.StatusAttending), "attending|maybe|not_attending")
	fs.Parse(args)

	if err := a.calendar.Refresh(a.ctx); err != nil {
		return fmt.Errorf("%s", rest.Detail(err, "could not load events"))
	}
	if err := a.calendar.Select(a.ctx, *id); err != nil {
		return fmt.Errorf("%s", rest.Detail(err, "could not load the roster"))
	}
	if err := a.calendar.SetStatus(a.ctx, models.AttendanceStatus(*status)); err != nil {
		return fmt.Errorf("%s", rest.Detail(err, "could not update attendance"))
	}
	fmt.Printf("status set; %d attending\n", a.calendar.AttendingCount())
	return nil
}

func (a *app) cmdCreateEvent(args []string) error {
	fs := flag.NewFlagSet("create-event", flag.ExitOnError)
	title := fs.String("title", "", "event title")
	description := fs.String("description", "", "event description")
	location := fs.String("location", "", "event location")
	start := fs.String("start", "", "start date (RFC3339)")
	end := fs.String("end", "", "end date (RFC3339)")
	category := fs.String("category", "", "event category")
	fs.Parse(args)

	startAt, err := time.Parse(time.RFC3339, *start)
	if err != nil {
		return fmt.Errorf("invalid -start: %w", err)
	}
	endAt, err := time.Parse(time.RFC3339, *end)
	if err != nil {
		return fmt.Errorf("invalid -end: %w", err)
	}

	created, err := a.calendar.Create(a.ctx, events.Draft{
		Title:       *title,
		Description: *description,
		Location:    *location,
		StartDate:   startAt,
		EndDate:     endAt,
		Category:    *category,
	})
	if err != nil {
		return fmt.Errorf("%s", rest.Detail(err, "could not create the event"))
	}
	fmt.Println("created", created.ID)
	return nil
}

func (a *app) cmdDeleteEvent(args []string) error {
	fs := flag.NewFlagSet("delete-event", flag.ExitOnError)
	id := fs.String("id", "", "event id")
	fs.Parse(args)

	if !a.confirm("Delete this event?") {
		return nil
	}
	if err := a.calendar.Delete(a.ctx, *id); err != nil {
		return fmt.Errorf("%s", rest.Detail(err, "could not delete the event"))
	}
	fmt.Println("deleted")
	return nil
}

func (a *app) cmdProfile(args []string) error {
	fs := flag.NewFlagSet("profile", flag.ExitOnError)
	id := fs.String("id", "", "user id (defaults to yourself)")
	fs.Parse(args)

	if *id == "" {
		if err := a.profile.LoadSelf(); err != nil {
			return err
		}
	} else if err := a.profile.Load(a.ctx, *id); err != nil {
		return fmt.Errorf("%s", rest.Detail(err, "could not load the profile"))
	}

	u := a.profile.Record()
	fmt.Printf("%s <%s> role=%s\n", u.Name, u.Email, u.Role)
	if u.Position != "" {
		fmt.Println("position:", u.Position)
	}
	if u.Bio != "" {
		fmt.Println("bio:", u.Bio)
	}
	if u.Phone != "" {
		fmt.Println("phone:", u.Phone)
	}
	if u.Location != "" {
		fmt.Println("location:", u.Location)
	}
	fmt.Println("member since:", formatTime(u.CreatedAt))
	return nil
}

func (a *app) cmdEditProfile(args []string) error {
	if err := a.profile.LoadSelf(); err != nil {
		return err
	}
	if err := a.profile.BeginEdit(); err != nil {
		return err
	}
	draft := a.profile.Draft()

	fs := flag.NewFlagSet("edit-profile", flag.ExitOnError)
	fs.StringVar(&draft.Name, "name", draft.Name, "display name")
	fs.StringVar(&draft.Avatar, "avatar", draft.Avatar, "avatar URL")
	fs.StringVar(&draft.Bio, "bio", draft.Bio, "bio")
	fs.StringVar(&draft.Position, "position", draft.Position, "position in the comparsa")
	fs.StringVar(&draft.Phone, "phone", draft.Phone, "phone")
	fs.StringVar(&draft.Location, "location", draft.Location, "location")
	fs.Parse(args)

	a.profile.SetDraft(draft)
	updated, err := a.profile.Save(a.ctx)
	if err != nil {
		return fmt.Errorf("%s", rest.Detail(err, "could not save the profile"))
	}
	fmt.Printf("saved; you are now %s\n", updated.Name)
	return nil
}

func (a *app) cmdStats() error {
	if err := a.panel.RefreshStats(a.ctx); err != nil {
		return fmt.Errorf("%s", rest.Detail(err, "could not load stats"))
	}
	st := a.panel.Stats()
	fmt.Printf("users=%d posts=%d events=%d announcements=%d\n",
		st.TotalUsers, st.TotalPosts, st.TotalEvents, st.TotalAnnouncements)
	return nil
}

func (a *app) cmdUsers() error {
	if err := a.panel.RefreshUsers(a.ctx); err != nil {
		return fmt.Errorf("%s", rest.Detail(err, "could not load users"))
	}
	self := a.session.UserID()
	for _, u := range a.panel.Users() {
		marker := " "
		if u.ID == self {
			marker = "*"
		}
		fmt.Printf("%s [%s] %s <%s> role=%s\n", marker, u.ID, u.Name, u.Email, u.Role)
	}
	return nil
}

func (a *app) cmdSetRole(args []string) error {
	fs := flag.NewFlagSet("set-role", flag.ExitOnError)
	id := fs.String("id", "", "user id")
	role := fs.String("role", "", "member|admin")
	fs.Parse(args)

	if !a.confirm(fmt.Sprintf("Change this user's role to %s?", *role)) {
		return nil
	}
	if err := a.panel.RefreshUsers(a.ctx); err != nil {
		return fmt.Errorf("%s", rest.Detail(err, "could not load users"))
	}
	if err := a.panel.SetRole(a.ctx, *id, models.Role(*role)); err != nil {
		return fmt.Errorf("%s", rest.Detail(err, "could not update the role"))
	}
	fmt.Println("role updated")
	return nil
}

func (a *app) cmdDeleteUser(args []string) error {
	fs := flag.NewFlagSet("delete-user", flag.ExitOnError)
	id := fs.String("id", "", "user id")
	fs.Parse(args)

	if !a.confirm("Delete this user and all their content?") {
		return nil
	}
	if err := a.panel.RefreshUsers(a.ctx); err != nil {
		return fmt.Errorf("%s", rest.Detail(err, "could not load users"))
	}
	if err := a.panel.DeleteUser(a.ctx, *id); err != nil {
		return fmt.Errorf("%s", rest.Detail(err, "could not delete the user"))
	}
	fmt.Println("user deleted")
	return nil
}
