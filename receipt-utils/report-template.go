package receipt_utils

const chainReportTemplate = `CONSENT RECEIPT CHAIN REPORT
============================
generated:      {{generated}}
chain length:   {{length}}
head hash:      {{head_hash}}
tail hash:      {{tail_hash}}
current epoch:  {{current_epoch}}
chain valid:    {{valid}}
errors:         {{error_count}}
{{#errors}}
  [{{index}}] {{receipt_id}}: {{error}}
{{/errors}}
{{^errors}}
no integrity errors detected
{{/errors}}
`
