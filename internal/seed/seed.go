// Package seed loads demo classrooms from a YAML fixture through the service
// layer, so seeded data obeys the same rules as API writes.
package seed

import (
	"context"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	types "github.com/yungbote/classroom-backend/internal/domain"
	"github.com/yungbote/classroom-backend/internal/pkg/pointers"
	"github.com/yungbote/classroom-backend/internal/platform/apierr"
	"github.com/yungbote/classroom-backend/internal/platform/logger"
	"github.com/yungbote/classroom-backend/internal/services"
)

type Fixture struct {
	Accounts []Account `yaml:"accounts"`
	Classes  []Class   `yaml:"classes"`
}

type Account struct {
	Name     string `yaml:"name"`
	Password string `yaml:"password"`
	Role     string `yaml:"role"`
}

type Class struct {
	Name     string   `yaml:"name"`
	Teacher  string   `yaml:"teacher"`
	Students []string `yaml:"students"`
	Topics   []Topic  `yaml:"topics"`
	Lessons  []Lesson `yaml:"lessons"`
}

type Topic struct {
	Title    string   `yaml:"title"`
	Concepts []string `yaml:"concepts"`
	Items    []Item   `yaml:"items"`
}

type Item struct {
	Title        string   `yaml:"title"`
	Type         string   `yaml:"type"`
	QuizSubtype  string   `yaml:"quizSubtype"`
	QuizQuestion string   `yaml:"quizQuestion"`
	QuizOptions  []string `yaml:"quizOptions"`
	QuizAnswer   string   `yaml:"quizAnswer"`
}

type Lesson struct {
	Unit         string   `yaml:"unit"`
	Heading      string   `yaml:"heading"`
	Duration     string   `yaml:"duration"`
	Body         string   `yaml:"body"`
	Instructions string   `yaml:"instructions"`
	Question     string   `yaml:"question"`
	CodeStarter  string   `yaml:"codeStarter"`
	Hints        []string `yaml:"hints"`
}

func Load(r io.Reader) (*Fixture, error) {
	var f Fixture
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return &f, nil
		}
		return nil, fmt.Errorf("decode fixture: %w", err)
	}
	return &f, nil
}

type Services struct {
	Auth    services.AuthService
	Class   services.ClassService
	Catalog services.CatalogService
	Lesson  services.LessonService
}

// Summary counts what Apply created.
type Summary struct {
	Accounts int
	Classes  int
	Topics   int
	Items    int
	Lessons  int
}

// Apply creates the fixture. Accounts that already exist are logged into
// instead, so a fixture can be re-applied to add classes.
func Apply(ctx context.Context, log *logger.Logger, svc Services, f *Fixture) (Summary, error) {
	var sum Summary
	callers := make(map[string]services.Caller, len(f.Accounts))
	for _, a := range f.Accounts {
		caller, created, err := account(ctx, svc.Auth, a)
		if err != nil {
			return sum, fmt.Errorf("account %q: %w", a.Name, err)
		}
		if created {
			sum.Accounts++
		}
		callers[a.Name] = caller
	}

	for _, c := range f.Classes {
		teacher, ok := callers[c.Teacher]
		if !ok {
			return sum, fmt.Errorf("class %q: unknown teacher %q", c.Name, c.Teacher)
		}
		class, err := svc.Class.Create(ctx, teacher, c.Name)
		if err != nil {
			return sum, fmt.Errorf("class %q: %w", c.Name, err)
		}
		sum.Classes++
		log.Info("seeded class", "class_id", class.ID, "name", class.Name, "join_code", class.JoinCode)

		for _, name := range c.Students {
			student, ok := callers[name]
			if !ok {
				return sum, fmt.Errorf("class %q: unknown student %q", c.Name, name)
			}
			if _, _, err := svc.Class.Join(ctx, student, class.JoinCode); err != nil {
				return sum, fmt.Errorf("class %q: join %q: %w", c.Name, name, err)
			}
		}

		for _, t := range c.Topics {
			title := t.Title
			topic, err := svc.Catalog.CreateTopic(ctx, teacher, class.ID, services.TopicInput{
				Title:       &title,
				Concepts:    t.Concepts,
				ConceptsSet: true,
			})
			if err != nil {
				return sum, fmt.Errorf("topic %q: %w", t.Title, err)
			}
			sum.Topics++
			for _, it := range t.Items {
				if _, err := svc.Catalog.CreateItem(ctx, teacher, class.ID, topic.ID, itemInput(it)); err != nil {
					return sum, fmt.Errorf("item %q: %w", it.Title, err)
				}
				sum.Items++
			}
		}

		for _, l := range c.Lessons {
			_, err := svc.Lesson.Create(ctx, teacher, services.LessonInput{
				ClassID:      class.ID,
				Unit:         l.Unit,
				Heading:      l.Heading,
				Duration:     l.Duration,
				Body:         l.Body,
				Instructions: l.Instructions,
				Question:     l.Question,
				CodeStarter:  l.CodeStarter,
				Hints:        l.Hints,
			})
			if err != nil {
				return sum, fmt.Errorf("lesson %q: %w", l.Heading, err)
			}
			sum.Lessons++
		}
	}
	return sum, nil
}

func account(ctx context.Context, auth services.AuthService, a Account) (services.Caller, bool, error) {
	res, err := auth.Signup(ctx, services.SignupInput{Name: a.Name, Password: a.Password, Role: a.Role})
	created := err == nil
	if apierr.Is(err, apierr.CodeUserExists) {
		res, err = auth.Login(ctx, a.Name, a.Password)
	}
	if err != nil {
		return services.Caller{}, false, err
	}
	return callerOf(res.Account), created, nil
}

func callerOf(a *types.Account) services.Caller {
	return services.Caller{AccountID: a.ID, Role: a.Role, Name: a.Name}
}

func itemInput(it Item) services.ItemInput {
	in := services.ItemInput{Title: pointers.String(it.Title), Type: pointers.String(it.Type)}
	if it.Type != types.ItemTypeQuiz {
		return in
	}
	if it.QuizSubtype != "" {
		in.Quiz.Subtype = pointers.String(it.QuizSubtype)
	}
	in.Quiz.Question = pointers.String(it.QuizQuestion)
	in.Quiz.Answer = pointers.String(it.QuizAnswer)
	if it.QuizOptions != nil {
		in.Quiz.OptionsSet = true
		for _, o := range it.QuizOptions {
			in.Quiz.Options = append(in.Quiz.Options, o)
		}
	}
	return in
}
