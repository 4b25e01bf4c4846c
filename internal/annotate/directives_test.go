package annotate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractDirectives(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		lines  []string
		length int
	}{
		{
			name:   "single directive",
			text:   "# frozen_string_literal: true\nclass User\nend\n",
			lines:  []string{"# frozen_string_literal: true"},
			length: len("# frozen_string_literal: true\n"),
		},
		{
			name:   "shebang and encoding",
			text:   "#!/usr/bin/env ruby\n# encoding: utf-8\n\nputs 1\n",
			lines:  []string{"#!/usr/bin/env ruby", "# encoding: utf-8"},
			length: len("#!/usr/bin/env ruby\n# encoding: utf-8\n"),
		},
		{
			name:   "emacs form",
			text:   "# -*- coding: utf-8 -*-\nclass A\nend\n",
			lines:  []string{"# -*- coding: utf-8 -*-"},
			length: len("# -*- coding: utf-8 -*-\n"),
		},
		{
			name:   "stops at blank line",
			text:   "# typed: strong\n\n# frozen_string_literal: true\n",
			lines:  []string{"# typed: strong"},
			length: len("# typed: strong\n"),
		},
		{
			name: "directive after human comment is not a directive",
			text: "# some comment\n# frozen_string_literal: true\nclass A\nend\n",
		},
		{
			name:   "shebang only counts on first line",
			text:   "# typed: true\n#!/bin/sh\n",
			lines:  []string{"# typed: true"},
			length: len("# typed: true\n"),
		},
		{
			name:   "crlf terminators",
			text:   "# typed: strict\r\nclass A\r\nend\r\n",
			lines:  []string{"# typed: strict"},
			length: len("# typed: strict\r\n"),
		},
		{
			name:   "unterminated file",
			text:   "# frozen_string_literal: true",
			lines:  []string{"# frozen_string_literal: true"},
			length: len("# frozen_string_literal: true"),
		},
		{
			name: "empty",
			text: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := ExtractDirectives(tt.text)
			assert.Equal(t, tt.lines, d.Lines)
			assert.Equal(t, tt.length, d.Length)
			assert.Equal(t, len(tt.lines) == 0, d.Empty())
		})
	}
}
