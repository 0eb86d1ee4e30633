package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Profile is the developer profile attached one-to-one to a user.
// Optional fields are omitted from storage until first supplied.
type Profile struct {
	ID             primitive.ObjectID `json:"_id" bson:"_id"`
	UserID         primitive.ObjectID `json:"-" bson:"user"`
	User           *UserSummary       `json:"user,omitempty" bson:"-"`
	Company        string             `json:"company,omitempty" bson:"company,omitempty"`
	Website        string             `json:"website,omitempty" bson:"website,omitempty"`
	Location       string             `json:"location,omitempty" bson:"location,omitempty"`
	Bio            string             `json:"bio,omitempty" bson:"bio,omitempty"`
	Status         string             `json:"status" bson:"status"`
	GithubUsername string             `json:"githubusername,omitempty" bson:"githubusername,omitempty"`
	Skills         []string           `json:"skills" bson:"skills"`
	Social         *Social            `json:"social,omitempty" bson:"social,omitempty"`
	Date           time.Time          `json:"date" bson:"date"`
}

// Clone returns a deep copy, so the result can be changed without touching p.
func (p *Profile) Clone() *Profile {
	c := *p
	c.Skills = append([]string{}, p.Skills...)
	if p.Social != nil {
		social := *p.Social
		c.Social = &social
	}
	return &c
}

type Social struct {
	Youtube   string `json:"youtube,omitempty" bson:"youtube,omitempty"`
	Twitter   string `json:"twitter,omitempty" bson:"twitter,omitempty"`
	Facebook  string `json:"facebook,omitempty" bson:"facebook,omitempty"`
	Linkedin  string `json:"linkedin,omitempty" bson:"linkedin,omitempty"`
	Instagram string `json:"instagram,omitempty" bson:"instagram,omitempty"`
}

// ProfileFields is the create-or-update request body. An empty string means
// "not supplied": the field is left untouched on update and absent on create.
type ProfileFields struct {
	Company        string `json:"company"`
	Website        string `json:"website"`
	Location       string `json:"location"`
	Bio            string `json:"bio"`
	Status         string `json:"status" validate:"notblank"`
	GithubUsername string `json:"githubusername"`
	// Skills is comma-delimited, e.g. "go, rust".
	Skills    string `json:"skills"`
	Youtube   string `json:"youtube"`
	Twitter   string `json:"twitter"`
	Facebook  string `json:"facebook"`
	Linkedin  string `json:"linkedin"`
	Instagram string `json:"instagram"`
}

// Validate checks the fields required on every submission. Skills are only
// mandatory when a profile is first created, see ValidateCreate.
func (f *ProfileFields) Validate() map[string]string {
	return validateStruct(f, map[string]string{
		"status": "Status is required",
	})
}

func (f *ProfileFields) ValidateCreate() map[string]string {
	out := f.Validate()
	if len(ParseSkills(f.Skills)) == 0 {
		out["skills"] = "Skills are required"
	}
	return out
}

// Updates enumerates every updatable field that was supplied, keyed by its
// stored (dotted) path. This is the only place the updatable set is defined.
func (f *ProfileFields) Updates() map[string]interface{} {
	set := make(map[string]interface{})
	put := func(key, value string) {
		if v := strings.TrimSpace(value); v != "" {
			set[key] = v
		}
	}

	put("company", f.Company)
	put("website", f.Website)
	put("location", f.Location)
	put("bio", f.Bio)
	put("status", f.Status)
	put("githubusername", f.GithubUsername)
	if skills := ParseSkills(f.Skills); len(skills) > 0 {
		set["skills"] = skills
	}
	put("social.youtube", f.Youtube)
	put("social.twitter", f.Twitter)
	put("social.facebook", f.Facebook)
	put("social.linkedin", f.Linkedin)
	put("social.instagram", f.Instagram)

	return set
}

// Merge applies the supplied fields onto p in place. Fields that were not
// supplied keep their current value.
func (f *ProfileFields) Merge(p *Profile) {
	for key, value := range f.Updates() {
		switch key {
		case "skills":
			p.Skills = value.([]string)
			continue
		}
		s := value.(string)
		if strings.HasPrefix(key, "social.") && p.Social == nil {
			p.Social = &Social{}
		}
		switch key {
		case "company":
			p.Company = s
		case "website":
			p.Website = s
		case "location":
			p.Location = s
		case "bio":
			p.Bio = s
		case "status":
			p.Status = s
		case "githubusername":
			p.GithubUsername = s
		case "social.youtube":
			p.Social.Youtube = s
		case "social.twitter":
			p.Social.Twitter = s
		case "social.facebook":
			p.Social.Facebook = s
		case "social.linkedin":
			p.Social.Linkedin = s
		case "social.instagram":
			p.Social.Instagram = s
		}
	}
}

// ParseSkills splits a comma-delimited list, trimming each entry and
// dropping empty ones.
func ParseSkills(raw string) []string {
	skills := make([]string, 0)
	for _, s := range strings.Split(raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			skills = append(skills, s)
		}
	}
	return skills
}
