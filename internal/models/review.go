package models

// Review is a user's comment and vote on a plugin. One review per user
// per plugin, enforced server-side.
type Review struct {
	ID              string  `json:"id"`
	PluginID        string  `json:"plugin_id"`
	UserID          string  `json:"user_id"`
	Name            string  `json:"name,omitempty"`
	Comment         string  `json:"comment"`
	Vote            int     `json:"vote"`
	AuthorReply     string  `json:"author_reply,omitempty"`
	FlaggedByAuthor IntBool `json:"flagged_by_author"`
}
